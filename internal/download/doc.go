// Package download drives yt-dlp (via github.com/lrstanley/go-ytdlp) to
// produce the requested MP3 or MP4 file, and derives the output file name.
package download
