package config

import (
	"flag"
	"fmt"
	"strings"
)

// parses CLI flags for the provision command
func ParseProvisionFlags(args []string) (ProvisionFlags, error) {
	fs := flag.NewFlagSet("provision", flag.ContinueOnError)

	id := fs.String("id", "", "auth user id to provision (required)")
	email := fs.String("email", "", "user email (required)")
	name := fs.String("name", "", "display name, defaults to the onboarding placeholder")
	org := fs.String("org", "", "organization name, defaults to the onboarding placeholder")
	telefone := fs.String("telefone", "", "phone number")
	dryRun := fs.Bool("dry-run", false, "print the normalized user and exit without writing")

	if err := fs.Parse(args); err != nil {
		return ProvisionFlags{}, err
	}

	flags := ProvisionFlags{
		UserID:           strings.TrimSpace(*id),
		Email:            strings.TrimSpace(*email),
		Name:             strings.TrimSpace(*name),
		OrganizationName: strings.TrimSpace(*org),
		Telefone:         strings.TrimSpace(*telefone),
		DryRun:           *dryRun,
	}

	if flags.UserID == "" {
		return ProvisionFlags{}, fmt.Errorf("-id is required")
	}

	if flags.Email == "" {
		return ProvisionFlags{}, fmt.Errorf("-email is required")
	}

	return flags, nil
}
