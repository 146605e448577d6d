//go:build leakcheck

package pool

const leakFatal = true
