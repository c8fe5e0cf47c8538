// Package catalog holds the fixed tables of narration voices, narration
// languages and transcription models.
//
// Every entry carries an explicit numeric ID that is stored in reel records
// and accepted on the command line. IDs are part of the table literal, never
// derived from position, so reordering or inserting entries cannot change
// what a stored ID refers to.
package catalog
