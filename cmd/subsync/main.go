// Command subsync mirrors a YouTube account's subscription list into a
// Google Sheet and subscribes the account to channels added to the sheet.
package main

import (
	"os"

	"github.com/custodia-labs/subsync-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
