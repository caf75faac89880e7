package cli

import (
	"fmt"
	"io"

	"github.com/arthur-debert/modorg/internal/version"
	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// ManHeader is the header of every generated man page.
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "MODORG",
		Section: "1",
		Source:  "modorg " + version.Version,
		Manual:  "modorg manual",
	}
}

// GenCompletion writes the completion script of root for shell.
func GenCompletion(root *cobra.Command, shell string, w io.Writer) error {
	var err error
	switch shell {
	case "bash":
		err = root.GenBashCompletionV2(w, true)
	case "zsh":
		err = root.GenZshCompletion(w)
	case "fish":
		err = root.GenFishCompletion(w, true)
	case "powershell":
		err = root.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown shell %q (supported: bash, zsh, fish, powershell)", shell)
	}
	if err != nil {
		return fmt.Errorf("generating %s completion: %w", shell, err)
	}
	return nil
}
