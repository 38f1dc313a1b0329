// Package report renders harvest results for humans and tools.
//
// Entity findings are written through a FindingWriter. Writers are safe for
// concurrent use because findings for one document are reported from
// several goroutines at once. Three formats are provided:
//   - text: one block per finding, streamed as it arrives
//   - json: one JSON object per line, streamed
//   - markdown: buffered and rendered on Close, grouped by document
//
// UserTable and DocumentTable print aligned listings for the users and r
// commands.
package report
