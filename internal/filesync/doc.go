// Package filesync keeps an editing session in step with a file on disk.
//
// Watch follows one file with fsnotify. Bursts of write events are
// debounced, the file is re-read into a rope and handed to the target via
// SetRope, which engines report to their listeners as a full resync.
// Reloads whose content matches the current document are skipped, so
// saving through Save does not bounce back as a reload.
//
// The parent directory is watched rather than the file itself because many
// programs save by writing a temporary file and renaming it into place.
package filesync
