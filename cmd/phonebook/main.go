// Command phonebook is a terminal front end for the contact client. It asks
// for the local and remote socket addresses, then reads one command per line.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"phonebook/client"
	"phonebook/contact"
	"phonebook/pkg/config"
	"phonebook/pkg/logger"
)

const help = `commands:
  add <name> <number>   add a contact
  del <index>           delete a contact
  edit <index>          start editing a number
  set <index> <text>    type into the number being edited
  done <index>          finish editing
  list                  show the local list
  fetch                 reload the list from the store
  quit`

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	// Logs go to stderr so they do not interleave with the prompt.
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(client.Options{
		ReceiveTimeout: cfg.Client.ReceiveTimeout,
		AwaitAcks:      cfg.Client.AwaitAcks,
		Logger:         log,
	})
	defer c.Close()

	if err := run(ctx, c, cfg, os.Stdin, os.Stdout); err != nil {
		log.Error("phonebook stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Controller, cfg *config.Config, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	if !connect(c, cfg, sc, out) {
		return sc.Err()
	}
	fmt.Fprintln(out, help)

	for {
		fmt.Fprint(out, "> ")
		if ctx.Err() != nil || !sc.Scan() {
			return sc.Err()
		}
		if quit := exec(ctx, c, strings.Fields(sc.Text()), out); quit {
			return nil
		}
	}
}

// connect fills the connection form until Connect succeeds. Empty answers
// keep the configured defaults.
func connect(c *client.Controller, cfg *config.Config, sc *bufio.Scanner, out io.Writer) bool {
	localIP, localPort := splitAddr(cfg.Client.LocalAddr)
	remoteIP, remotePort := splitAddr(cfg.Client.RemoteAddr)

	for c.Phase() == client.Connecting {
		fields := []struct {
			prompt string
			value  *string
			set    func(string)
		}{
			{"local ip", &localIP, c.SetLocalIP},
			{"local port", &localPort, c.SetLocalPort},
			{"remote ip", &remoteIP, c.SetRemoteIP},
			{"remote port", &remotePort, c.SetRemotePort},
		}
		for _, f := range fields {
			fmt.Fprintf(out, "%s [%s]: ", f.prompt, *f.value)
			if !sc.Scan() {
				return false
			}
			if v := strings.TrimSpace(sc.Text()); v != "" {
				*f.value = v
			}
			f.set(*f.value)
		}
		if err := c.Connect(); err != nil {
			fmt.Fprintln(out, c.Err())
		}
	}
	return true
}

func exec(ctx context.Context, c *client.Controller, args []string, out io.Writer) (quit bool) {
	if len(args) == 0 {
		return false
	}

	var err error
	switch cmd := args[0]; cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(out, help)
	case "list":
		printContacts(c, out)
	case "fetch":
		if err = c.RefreshAll(ctx); err == nil {
			printContacts(c, out)
		}
	case "add":
		if len(args) < 3 {
			err = fmt.Errorf("usage: add <name> <number>")
			break
		}
		c.SetName(strings.Join(args[1:len(args)-1], " "))
		c.SetNumber(args[len(args)-1])
		if c.NumberInvalid() {
			fmt.Fprintln(out, "number is not valid")
		}
		err = c.AddContact(ctx)
	case "del", "edit", "set", "done":
		err = entryCommand(ctx, c, cmd, args[1:])
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		fmt.Fprintln(out, "error:", err)
	}
	return false
}

func entryCommand(ctx context.Context, c *client.Controller, cmd string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s <index>", cmd)
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad index %q", args[0])
	}

	switch cmd {
	case "del":
		return c.UpdateContact(ctx, index, contact.Message{Kind: contact.Delete})
	case "edit":
		return c.UpdateContact(ctx, index, contact.Message{Kind: contact.Edit})
	case "set":
		return c.UpdateContact(ctx, index, contact.Message{Kind: contact.Edited, Text: strings.Join(args[1:], " ")})
	default:
		return c.UpdateContact(ctx, index, contact.Message{Kind: contact.FinishEdition})
	}
}

func printContacts(c *client.Controller, out io.Writer) {
	for i, e := range c.Contacts() {
		switch {
		case e.State == contact.Editing && !e.Valid:
			fmt.Fprintf(out, "%3d  %-20s %s (editing, not a valid number)\n", i, e.Name, e.Pending())
		case e.State == contact.Editing:
			fmt.Fprintf(out, "%3d  %-20s %s (editing)\n", i, e.Name, e.Pending())
		default:
			fmt.Fprintf(out, "%3d  %-20s %s\n", i, e.Name, e.Number)
		}
	}
}

func splitAddr(addr string) (string, string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, ""
	}
	return host, port
}
