package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irtiza07/public-api/pkg/cli"
	"github.com/irtiza07/public-api/pkg/todo"
	"github.com/irtiza07/public-api/pkg/todomcp"
)

// version is reported by the MCP server.
const version = "0.1.0"

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage TODO items",
	Long: `Manage TODO items kept in a CSV file (local or S3) or in the KV store.

Examples:
  publicapi todo add "Buy milk" --priority high --due 2025-06-01
  publicapi todo list --status pending
  publicapi todo list --json --jq '.[] | select(.priority == "high") | .name'
  publicapi todo update 3 --status completed
  publicapi todo delete 3
  publicapi todo mcp        # serve the TODO tools over MCP (stdio)`,
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List TODOs",
	RunE: func(cmd *cobra.Command, args []string) error {
		statusFlag, _ := cmd.Flags().GetString("status")
		query, _ := cmd.Flags().GetString("jq")

		var status todo.Status
		if statusFlag != "" {
			st, err := todo.ParseStatus(statusFlag)
			if err != nil {
				return err
			}
			status = st
		}

		store, release, err := openTodoStore()
		if err != nil {
			return err
		}
		defer release()

		items, err := store.List(cmd.Context(), status)
		if err != nil {
			return err
		}
		if len(items) == 0 && query == "" {
			fmt.Println("No TODOs found.")
			return nil
		}
		if items == nil {
			items = []todo.Item{}
		}
		return outputResult(items, query)
	},
}

var todoAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a TODO",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, _ := cmd.Flags().GetString("priority")
		due, _ := cmd.Flags().GetString("due")
		status, _ := cmd.Flags().GetString("status")

		store, release, err := openTodoStore()
		if err != nil {
			return err
		}
		defer release()

		it, err := store.Add(cmd.Context(), todo.AddParams{
			Name:     args[0],
			Priority: todo.Priority(priority),
			TimeDue:  due,
			Status:   todo.Status(status),
		})
		if err != nil {
			return err
		}
		cli.PrintSuccess("TODO added successfully!")
		return outputResult(it, "")
	},
}

var todoUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a TODO",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch todo.Patch
		flags := cmd.Flags()
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			patch.Name = &v
		}
		if flags.Changed("priority") {
			v, _ := flags.GetString("priority")
			p := todo.Priority(v)
			patch.Priority = &p
		}
		if flags.Changed("due") {
			v, _ := flags.GetString("due")
			patch.TimeDue = &v
		}
		if flags.Changed("status") {
			v, _ := flags.GetString("status")
			st := todo.Status(v)
			patch.Status = &st
		}

		store, release, err := openTodoStore()
		if err != nil {
			return err
		}
		defer release()

		it, err := store.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}
		cli.PrintSuccess("TODO updated successfully!")
		return outputResult(it, "")
	},
}

var todoDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a TODO",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, release, err := openTodoStore()
		if err != nil {
			return err
		}
		defer release()

		ok, err := store.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("TODO with ID %s not found", args[0])
		}
		cli.PrintSuccess("TODO with ID %s deleted successfully!", args[0])
		return nil
	},
}

var todoMCPCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the TODO tools over MCP on stdin/stdout",
	Long: `Serve list_todos, add_todo, update_todo and delete_todo to an MCP
client over stdio. Logs go to stderr so stdout stays a clean protocol stream.

Example client entry:
  {"command": "publicapi", "args": ["todo", "mcp"]}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, release, err := openTodoStore()
		if err != nil {
			return err
		}
		defer release()
		return todomcp.New(store, version).ServeStdio()
	},
}

func init() {
	todoListCmd.Flags().String("status", "", "only list TODOs with this status (pending, completed)")
	todoListCmd.Flags().String("jq", "", "jq expression applied to the list before output")

	todoAddCmd.Flags().String("priority", string(todo.PriorityMedium), "priority (low, medium, high)")
	todoAddCmd.Flags().String("due", "", "due date/time")
	todoAddCmd.Flags().String("status", string(todo.StatusPending), "status (pending, completed)")

	todoUpdateCmd.Flags().String("name", "", "new name")
	todoUpdateCmd.Flags().String("priority", "", "new priority")
	todoUpdateCmd.Flags().String("due", "", "new due date/time")
	todoUpdateCmd.Flags().String("status", "", "new status")

	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoAddCmd)
	todoCmd.AddCommand(todoUpdateCmd)
	todoCmd.AddCommand(todoDeleteCmd)
	todoCmd.AddCommand(todoMCPCmd)
}
