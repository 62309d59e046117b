// Package ui provides semantic text formatting for passman's CLI output.
//
// Formatters render content by what it is rather than how it looks. With a
// color terminal the text is colorized; with NO_COLOR set or a dumb terminal,
// text decorations are used instead:
//
//	ui.Code.Sprint("passman list")        // `passman list`
//	ui.Path.Sprint("~/.crypt/passman")    // ~/.crypt/passman
//	ui.Highlight.Sprint("github")         // 'github'
//	ui.Muted.Sprint("expires in 12s")     // (expires in 12s)
//
// Status and Days describe a record's age for the read and list commands.
package ui
