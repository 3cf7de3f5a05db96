package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for attredit.

To load completions:

Bash:
  $ source <(attredit completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ attredit completion bash > /etc/bash_completion.d/attredit
  # macOS:
  $ attredit completion bash > $(brew --prefix)/etc/bash_completion.d/attredit

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ attredit completion zsh > "${fpath[1]}/_attredit"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ attredit completion fish | source

  # To load completions for each session, execute once:
  $ attredit completion fish > ~/.config/fish/completions/attredit.fish

PowerShell:
  PS> attredit completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> attredit completion powershell > attredit.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeOps suggests the edit verbs accepted by --op.
func completeOps(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"set\tset a row's value: set <equip>:<attr> <value>",
		"set-attr\tchange a row's attribute: set-attr <equip>:<attr> <id>",
		"up\tmove a row up: up <equip>:<attr>",
		"down\tmove a row down: down <equip>:<attr>",
		"delete\tdelete a row: delete <equip>:<attr>",
		"add\tappend a row: add <equip>",
	}, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
