// Package heasoft builds and executes the HEASoft photometry commands
// (uvotsource, uvotmaghist) and classifies their diagnostic output.
//
// HEASoft tools take key=value keyword arguments and report most problems
// through their chatter stream rather than the exit status. Every
// invocation's combined output is therefore captured and matched against
// known error markers to produce an explicit [Outcome] per call.
//
// clobber=no is fixed on every invocation: the tools append to an output
// table that already exists and create it otherwise, which is how rows
// accumulate across sequential calls within one run. The pipeline's
// clean-slate pass guarantees no table survives from an earlier run.
package heasoft
