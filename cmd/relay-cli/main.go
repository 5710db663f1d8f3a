// Package main provides a terminal client for the relay WebSocket endpoint.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/relay/internal/protocol"
)

// Client is a connected chat client.
type Client struct {
	conn  *websocket.Conn
	out   io.Writer
	turns chan struct{}
	done  chan struct{}
}

// NewClient connects to the session endpoint for clientID.
func NewClient(addr, clientID string) (*Client, error) {
	endpoint := strings.TrimSuffix(addr, "/") + "/ws/session/" + url.PathEscape(clientID)
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return &Client{
		conn:  conn,
		out:   os.Stdout,
		turns: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}, nil
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// Send sends one user message.
func (c *Client) Send(text string) error {
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Listen prints frames until the connection closes, signalling each end_turn.
func (c *Client) Listen() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				fmt.Fprintf(c.out, "\n[disconnected] %v\n", err)
			}
			return
		}

		var frame protocol.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			fmt.Fprintf(c.out, "\n[invalid frame] %s\n", data)
			continue
		}

		switch frame.Type {
		case protocol.FrameToken:
			fmt.Fprint(c.out, frame.Content)
		case protocol.FrameInfo:
			fmt.Fprintf(c.out, "\n[info] %s\n", frame.Content)
		case protocol.FrameError:
			fmt.Fprintf(c.out, "\n[error] %s\n", frame.Content)
		case protocol.FrameEndTurn:
			fmt.Fprintln(c.out)
			select {
			case c.turns <- struct{}{}:
			default:
			}
		}
	}
}

func run(addr, clientID string) error {
	client, err := NewClient(addr, clientID)
	if err != nil {
		return err
	}
	defer client.Close()

	go client.Listen()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Printf("Connected as %s. Type a message, Ctrl+C to quit.\n", clientID)
	for {
		fmt.Print("> ")
		select {
		case <-interrupt:
			fmt.Println()
			return nil
		case <-client.done:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := client.Send(line); err != nil {
				return fmt.Errorf("send: %w", err)
			}
			select {
			case <-client.turns:
			case <-client.done:
				return nil
			case <-interrupt:
				fmt.Println()
				return nil
			}
		}
	}
}

func main() {
	var addr, clientID string

	rootCmd := &cobra.Command{
		Use:          "relay-cli",
		Short:        "Chat with a relay server from the terminal",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, clientID)
		},
	}
	rootCmd.Flags().StringVar(&addr, "addr", "ws://localhost:8000", "relay server address")
	rootCmd.Flags().StringVar(&clientID, "client-id", "cli-user", "client identifier used as the session user")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
