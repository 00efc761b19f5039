// Command covidash is a terminal dashboard for the COVID-19 tweet sentiment
// backend.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
