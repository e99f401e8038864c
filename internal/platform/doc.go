// Package platform contains OS integration and external tooling glue:
// filesystem helpers, executable naming, archive tool selection and the
// process runner used to drive yt-dlp and friends.
package platform
