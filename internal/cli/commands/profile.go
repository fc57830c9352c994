package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/campushire/campushire/internal/api"
	"github.com/campushire/campushire/internal/session"
)

// NewProfileCmd creates the profile command
func NewProfileCmd() *cobra.Command {
	var portalName, fullName, college, branch, linkedin, github string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		Long: `Show your CampusHire profile, or update it by passing one or more
of the update flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			update := api.ProfileUpdateRequest{}
			if cmd.Flags().Changed("full-name") {
				update.FullName = &fullName
			}
			if cmd.Flags().Changed("college") {
				update.CollegeName = &college
			}
			if cmd.Flags().Changed("branch") {
				update.Branch = &branch
			}
			if cmd.Flags().Changed("linkedin") {
				update.LinkedinID = &linkedin
			}
			if cmd.Flags().Changed("github") {
				update.GithubID = &github
			}
			return runProfile(portalName, update)
		},
	}

	cmd.Flags().StringVar(&portalName, "portal", "", "Portal name from campushire.yaml")
	cmd.Flags().StringVar(&fullName, "full-name", "", "Update your full name")
	cmd.Flags().StringVar(&college, "college", "", "Update your college name")
	cmd.Flags().StringVar(&branch, "branch", "", "Update your branch")
	cmd.Flags().StringVar(&linkedin, "linkedin", "", "Update your LinkedIn id")
	cmd.Flags().StringVar(&github, "github", "", "Update your GitHub id")

	return cmd
}

func runProfile(portalName string, update api.ProfileUpdateRequest) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if err := requireUser(store); err != nil {
		return err
	}

	portal, err := resolvePortal(portalName)
	if err != nil {
		return err
	}

	client := newClient(portal.URL, store)
	ctx := context.Background()

	var profile *api.Profile
	if update == (api.ProfileUpdateRequest{}) {
		profile, err = client.GetMe(ctx)
	} else {
		profile, err = client.UpdateProfile(ctx, update)
	}
	if err != nil {
		return err
	}

	// Keep the session's user record in sync with the server copy.
	if err := store.UpdateUser(session.UserPatch{
		FullName:         &profile.FullName,
		Email:            &profile.Email,
		ProfileCompleted: &profile.ProfileCompleted,
	}); err != nil {
		return err
	}

	printProfile(profile)
	return nil
}

func printProfile(p *api.Profile) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", p.FullName)
	fmt.Fprintf(w, "Email:\t%s\n", p.Email)
	if p.CollegeName != "" {
		fmt.Fprintf(w, "College:\t%s\n", p.CollegeName)
	}
	if p.Branch != "" {
		fmt.Fprintf(w, "Branch:\t%s\n", p.Branch)
	}
	if p.LinkedinID != "" {
		fmt.Fprintf(w, "LinkedIn:\t%s\n", p.LinkedinID)
	}
	if p.GithubID != "" {
		fmt.Fprintf(w, "GitHub:\t%s\n", p.GithubID)
	}
	fmt.Fprintf(w, "Completion:\t%d%%\n", p.ProfileCompletionPercentage)
	w.Flush()
}
