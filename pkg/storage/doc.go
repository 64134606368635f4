// Package storage writes report files into the output directory.
//
// Every write goes to a temporary file first and is renamed into place, so
// a crash never leaves a half-written report behind. JSON reports are
// indented with two spaces and keep characters such as & and < unescaped.
//
//	manager, err := storage.NewManager("output")
//	if err != nil {
//	    return err
//	}
//	path, err := manager.SaveJSON("posts.json", report)
package storage
