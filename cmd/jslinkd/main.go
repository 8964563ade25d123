// Command jslinkd runs the jslink workbench server.
package main

import (
	"fmt"
	"os"

	"github.com/benitogf/jslink"
)

func main() {
	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		dataDir := os.Getenv("JSLINK_DATA_DIR")
		if dataDir == "" {
			dataDir = "."
		}
		databaseURL = fmt.Sprintf("file:%s/jslink.db", dataDir)
	}

	server := jslink.Server{
		DatabaseURL: databaseURL,
		Silence:     os.Getenv("JSLINK_SILENCE") == "true",
	}
	server.Start(fmt.Sprintf("%s:%s", host, port))
	server.WaitClose()
}
