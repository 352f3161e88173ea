//go:build !debug

package csrt

// DebugTree is unavailable outside debug builds.
func (c *Container[V]) DebugTree() string { return "" }
