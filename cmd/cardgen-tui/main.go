// Command cardgen-tui is a terminal client for the cardgen API. It signs in,
// submits source text for generation, and walks the returned proposals
// through an accept/reject/edit review before saving them.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tenxcards/cardgen-api/internal/client"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "cardgen API server URL")
	flag.Parse()

	app := newApp(client.New(*serverURL))
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
