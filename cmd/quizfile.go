package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brianquiz/brianquiz/internal/quizfile"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a slot's quiz to a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("user")
		slotID, _ := cmd.Flags().GetInt("slot")
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return fmt.Errorf("--out is required")
		}

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.userSlots(cmd.Context(), username)
		if err != nil {
			return err
		}
		sl, ok := st.Slot(slotID)
		if !ok {
			return fmt.Errorf("no slot %d", slotID)
		}
		if sl.Empty() {
			return fmt.Errorf("%s is empty", sl.Name)
		}
		if err := quizfile.WriteFile(out, sl.Quiz); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %q (%d questions) to %s\n", sl.Quiz.Title, len(sl.Quiz.Questions), out)
		return nil
	},
}

var importFileCmd = &cobra.Command{
	Use:   "import-file <file.yaml>",
	Short: "Load a quiz from a YAML file into a slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("user")
		slotID, _ := cmd.Flags().GetInt("slot")
		force, _ := cmd.Flags().GetBool("force")

		q, err := quizfile.ReadFile(args[0])
		if err != nil {
			return err
		}

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		st, err := e.userSlots(ctx, username)
		if err != nil {
			return err
		}
		sl, ok := st.Slot(slotID)
		if !ok {
			return fmt.Errorf("no slot %d", slotID)
		}
		if !sl.Empty() && sl.Quiz.ID != q.ID && !force {
			return fmt.Errorf("%s already holds %q; pass --force to replace it", sl.Name, sl.Quiz.Title)
		}
		if _, err := st.SaveToSlot(ctx, slotID, q); err != nil {
			return fmt.Errorf("save to slot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %q into %s\n", q.Title, sl.Name)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{exportCmd, importFileCmd} {
		c.Flags().StringP("user", "u", "", "Owner of the slot")
		c.Flags().IntP("slot", "s", 1, "Slot number")
	}
	exportCmd.Flags().StringP("out", "o", "", "Destination YAML file")
	importFileCmd.Flags().BoolP("force", "f", false, "Replace a different quiz already in the slot")
}
