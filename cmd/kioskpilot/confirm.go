package main

import (
	"context"
	"fmt"
	"strings"
)

// confirmReboot is the human-in-the-loop gate before the unconditional
// reboot that ends the invocation. Returns false to defer the reboot to
// the operator; the completed stage is already in the ledger either way.
func confirmReboot(_ context.Context, message string) bool {
	if yesFlag {
		return true
	}

	fmt.Println(message)
	fmt.Print("Reboot now? [Y/n]: ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		// Empty input (plain Enter) means yes.
		return true
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response != "n" && response != "no"
}
