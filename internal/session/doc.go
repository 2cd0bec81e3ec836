// Package session holds the signed-in user for a board instance.
//
// A Manager is an explicitly owned session object with the lifecycle
// init -> authenticated -> cleared. The user is persisted as JSON under a
// fixed key ("user-storage") in a Store:
//
//	{"state":{"user":{"id":"...","email":"...","role":"agency"}},"version":0}
//
// SQLiteStore keeps sessions across restarts; MemoryStore is for tests.
package session
