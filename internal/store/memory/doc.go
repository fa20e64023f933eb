// Package memory provides an in-process implementation of store.Store.
//
// Collections are plain maps guarded by a RWMutex. Auto-assigned document
// IDs are random UUIDs and the server timestamp field is filled with the
// local time at write. Used by the -dry-run mode of the probe binaries and
// by every driver test.
//
//	s := memory.New()
//	id, _ := s.Write(ctx, "firebase_packetloss_test", "", store.Record{"sequence": 1})
//	_, err := s.Get(ctx, "firebase_packetloss_test", id)
package memory
