//go:build !leakcheck

package pool

// leakFatal makes leak audits panic. Enabled with the leakcheck build tag.
const leakFatal = false
