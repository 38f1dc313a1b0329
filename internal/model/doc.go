// Package model defines the records passed between the harvester's stages.
//
// This package contains the following main types:
//   - DocumentRecord: a search hit with its derived document id
//   - UserRecord: one enumerated profile
//   - DocumentText: decoded text of a downloaded document
//   - EntityFinding: one sensitive span detected in a document
//   - FetchTask and Outcome: the unit of work and its typed result
//
// Records are plain values. A stage that hands a record to the next stage
// keeps no reference to it.
package model
