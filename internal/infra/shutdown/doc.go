// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT/SIGTERM, a programmatic Trigger, or parent
// context cancellation, then runs registered hooks in reverse order of
// registration under a shared timeout:
//
//	h := shutdown.NewHandler(10*time.Second, log)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
