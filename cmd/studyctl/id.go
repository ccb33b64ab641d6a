package main

import (
	"fmt"

	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/spf13/cobra"
)

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Convert between lesson paths and lesson ids",
}

var idEncodeCmd = &cobra.Command{
	Use:   "encode <relative-path>",
	Short: "Print the lesson id for a path relative to the content root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), content.LessonID(args[0]))
		return nil
	},
}

var idDecodeCmd = &cobra.Command{
	Use:   "decode <lesson-id>",
	Short: "Print the relative path a lesson id refers to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := content.DecodeLessonID(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	idCmd.AddCommand(idEncodeCmd, idDecodeCmd)
	rootCmd.AddCommand(idCmd)
}
