// Package portalselect resolves which portal deployment a command should
// talk to when the project config lists more than one.
package portalselect

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"

	"github.com/campushire/campushire/internal/cli/config"
	"github.com/campushire/campushire/internal/cli/userconfig"
)

// Resolve determines which portal to use based on the following priority:
// 1. The --portal flag, when provided
// 2. The CAMPUSHIRE_API_URL environment variable
// 3. The portal remembered in the user's local config
// 4. The only portal, when the project config lists exactly one
// 5. An interactive prompt
func Resolve(projectConfig *config.Config, portalName string) (*config.Portal, error) {
	if portalName != "" {
		portal, err := projectConfig.GetPortalByName(portalName)
		if err != nil {
			return nil, err
		}
		return portal, nil
	}

	if url := os.Getenv(config.EnvAPIURL); url != "" {
		return &config.Portal{Name: "env", URL: url}, nil
	}

	selectedURL, err := userconfig.GetSelectedPortal()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if selectedURL != "" {
		portal, err := getPortalByURL(projectConfig, selectedURL)
		if err != nil {
			// Remembered portal no longer exists in the project config,
			// clear it and continue.
			_ = userconfig.SetSelectedPortal("")
		} else {
			return portal, nil
		}
	}

	if len(projectConfig.Portals) == 1 {
		portal := &projectConfig.Portals[0]
		if err := userconfig.SetSelectedPortal(portal.URL); err != nil {
			fmt.Printf("Warning: failed to save selected portal: %v\n", err)
		}
		return portal, nil
	}

	portal, err := PromptPortalSelection(projectConfig)
	if err != nil {
		return nil, err
	}

	if err := userconfig.SetSelectedPortal(portal.URL); err != nil {
		fmt.Printf("Warning: failed to save selected portal: %v\n", err)
	}

	return portal, nil
}

// PromptPortalSelection shows an interactive prompt for the user to select
// a portal
func PromptPortalSelection(projectConfig *config.Config) (*config.Portal, error) {
	if len(projectConfig.Portals) == 0 {
		return nil, fmt.Errorf("no portals configured in %s", config.ConfigFileName)
	}

	type portalOption struct {
		Label  string
		Portal *config.Portal
	}

	options := make([]portalOption, len(projectConfig.Portals))
	for i := range projectConfig.Portals {
		portal := &projectConfig.Portals[i]
		options[i] = portalOption{
			Label:  fmt.Sprintf("%s (%s)", portal.Name, portal.URL),
			Portal: portal,
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select a portal",
		Items:     options,
		Templates: templates,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("portal selection cancelled: %w", err)
	}

	return options[idx].Portal, nil
}

func getPortalByURL(projectConfig *config.Config, url string) (*config.Portal, error) {
	for i := range projectConfig.Portals {
		if projectConfig.Portals[i].URL == url {
			return &projectConfig.Portals[i], nil
		}
	}
	return nil, fmt.Errorf("portal with URL '%s' not found", url)
}
