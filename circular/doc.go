
// Package circular provides sliding-window data structures which are
// frequently useful when iterating through sorted BAM/PAM/BED files.
package circular
