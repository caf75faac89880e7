// Package version implements mod versions and version requirements.
//
// A Version has a required major field, up to three more numeric fields
// (minor, patch, revision) and an optional free-form suffix. Fields that were
// never written compare as zero, so "1" and "1.0.0" are equal, but the number
// of written fields (the specificity) still drives how requirements expand:
// "=1.2" accepts any 1.2.x while "=1.2.3" accepts only 1.2.3.x.
//
// A Requirement is a comma separated conjunction of Comparators such as
// ">=1.2, <2" or "^0.3.1". Values in this package are immutable and safe to
// share between goroutines.
package version
