// Package main provides the entry point for the scribdt CLI.
//
// scribdt harvests public document metadata and user profiles from a
// document-sharing site, scans downloaded document text for sensitive
// entities, and stores results in a local SQLite database.
//
// Usage:
//
//	scribdt documents <query> --cookies cookies.txt
//	scribdt users --user_end 500 --db scribdt.db
//	scribdt r --db scribdt.db --username alice
//
// See --help for all available options.
package main

func main() {
	Execute()
}
