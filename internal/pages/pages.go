// Package pages obtains page-aligned backing buffers straight from the OS,
// outside the Go heap, for allocators that want memory the garbage
// collector never scans.
package pages

func roundUp(n int) int {
	ps := Size()
	return (n + ps - 1) / ps * ps
}
