package main

import "strconv"

// verboseCount implements flag.Value for a repeatable "-v" flag: each
// occurrence increments the count, mirroring the historical vflag++ inside
// the ARGBEGIN option loop.
type verboseCount int

func (v *verboseCount) String() string {
	return strconv.Itoa(int(*v))
}

func (v *verboseCount) Set(string) error {
	*v++
	return nil
}

func (v *verboseCount) IsBoolFlag() bool { return true }
