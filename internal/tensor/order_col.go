//go:build colmajor

package tensor

const buildDefaultOrder = ColMajor
