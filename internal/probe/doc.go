// Package probe performs single operations against the document store.
//
// An Executor issues exactly one store call per method and never retries.
// Errors are logged and folded into the return value, so drivers only
// count outcomes:
//
//	exec := probe.New(s, "packetloss", probe.WithObserver(collector))
//	out := exec.Write(ctx, "firebase_packetloss_test", rec, "")
//	if out.OK {
//	    ids = append(ids, out.ID)
//	}
//	found := exec.ReadVerify(ctx, "firebase_packetloss_test", out.ID)
//	exec.Delete(ctx, "firebase_packetloss_test", out.ID)
package probe
