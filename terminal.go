package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kinohive-io/kino-addon/services/host"
)

// terminalHost adapts the terminal to the host.Runtime interfaces so the
// pipeline can be exercised without a media center.
type terminalHost struct {
	settings host.MapSettings
	profile  string
	dialogs  *terminalDialogs
	resolved *terminalResolved
	dir      *terminalDirectory
}

var _ host.Runtime = (*terminalHost)(nil)

func newTerminalHost(settings host.MapSettings, profile string) *terminalHost {
	return &terminalHost{
		settings: settings,
		profile:  profile,
		dialogs:  &terminalDialogs{in: bufio.NewReader(os.Stdin)},
		resolved: &terminalResolved{},
		dir:      &terminalDirectory{},
	}
}

func (h *terminalHost) Settings() host.Settings       { return h.settings }
func (h *terminalHost) Dialogs() host.Dialogs         { return h.dialogs }
func (h *terminalHost) Resolved() host.ResolvedSink   { return h.resolved }
func (h *terminalHost) Directory() host.DirectorySink { return h.dir }
func (h *terminalHost) ProfileDir() string            { return h.profile }

type terminalDialogs struct {
	in *bufio.Reader
}

func (d *terminalDialogs) Notify(title, message string) {
	fmt.Printf("[%s] %s\n", title, message)
}

func (d *terminalDialogs) Confirm(title, message string) bool {
	fmt.Printf("%s: %s [y/N] ", title, message)
	line, _ := d.in.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

func (d *terminalDialogs) Select(title string, options []string) int {
	fmt.Println(title)
	for i, opt := range options {
		fmt.Printf("  %d) %s\n", i+1, opt)
	}
	fmt.Print("> ")
	line, _ := d.in.ReadString('\n')
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(options) {
		return -1
	}
	return n - 1
}

func (d *terminalDialogs) Progress(title string) host.ProgressDialog {
	fmt.Println(title + "...")
	return &terminalProgress{}
}

type terminalProgress struct {
	last string
}

func (p *terminalProgress) Update(message string) {
	if message != p.last {
		fmt.Println("  " + message)
		p.last = message
	}
}

func (p *terminalProgress) IsCancelled() bool { return false }

func (p *terminalProgress) Close() {}

type terminalResolved struct{}

func (s *terminalResolved) SetResolved(item *host.ListItem, ok bool) {
	if !ok || item == nil {
		fmt.Println("resolution failed")
		return
	}
	fmt.Printf("resolved: %s\n", item.Path)
	if item.MimeType != "" {
		fmt.Printf("  mime: %s adaptive=%v\n", item.MimeType, item.Adaptive)
	}
	if item.ResumePosition > 0 {
		fmt.Printf("  resume: %.0fs / %.0fs\n", item.ResumePosition, item.TotalDuration)
	}
}

type terminalDirectory struct{}

func (s *terminalDirectory) Add(item *host.ListItem) {
	line := item.Label
	if item.Year != 0 {
		line = fmt.Sprintf("%s (%d)", line, item.Year)
	}
	fmt.Println(line)
}

func (s *terminalDirectory) End(ok bool) {
	if !ok {
		fmt.Println("listing failed")
	}
}
