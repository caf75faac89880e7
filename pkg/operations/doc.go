// Package operations defines the steps a plan is made of.
//
// There are exactly two: InstallMod and UninstallMod. Operation is a closed
// set; code that consumes operations switches over both types and treats
// anything else as a programming error.
package operations
