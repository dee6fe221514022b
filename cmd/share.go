package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brianquiz/brianquiz/internal/share"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a share link for a slot's quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("user")
		slotID, _ := cmd.Flags().GetInt("slot")
		bySlot, _ := cmd.Flags().GetBool("slot-link")

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
		if sl.Empty() {
			return fmt.Errorf("%s is empty", sl.Name)
		}

		var link string
		if bySlot {
			link, err = share.SlotLink(e.cfg.Share.BaseURL, sl.ShareID)
		} else {
			var token string
			token, err = share.Encode(sl.Quiz)
			if err == nil {
				link, err = share.Link(e.cfg.Share.BaseURL, token)
			}
		}
		if err != nil {
			return fmt.Errorf("build link: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

func init() {
	shareCmd.Flags().StringP("user", "u", "", "Owner of the slot")
	shareCmd.Flags().IntP("slot", "s", 1, "Slot number")
	shareCmd.Flags().Bool("slot-link", false, "Link to the slot instead of embedding the quiz")
}
