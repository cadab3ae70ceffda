// Package shutdown provides graceful shutdown for printlink.
//
// A Handler waits for SIGINT/SIGTERM (or a programmatic Trigger) and then
// runs the registered hooks in reverse order under a shared deadline:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown("http", srv.Shutdown)
//	h.OnShutdown("printers", svc.Shutdown)
//	err := h.Wait()
package shutdown
