package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/pto-tracker/generic"
)

var addPerson string

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List known people, or register one with --add",
	Args:  cobra.NoArgs,
	RunE:  runPeople,
}

func init() {
	peopleCmd.Flags().StringVar(&addPerson, "add", "", "register a person before listing")
}

func runPeople(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.close()

	ctx := cmd.Context()
	if name := generic.NormalizePerson(addPerson); name != "" {
		if err := svc.store.AddPerson(ctx, name); err != nil {
			return err
		}
	}
	people, err := svc.store.ListPeople(ctx)
	if err != nil {
		return err
	}
	for _, p := range people {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
