package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bramble-app/bramble-go/internal/api"
	"github.com/bramble-app/bramble-go/internal/authtoken"
	"github.com/bramble-app/bramble-go/internal/chat"
	"github.com/bramble-app/bramble-go/internal/config"
	"github.com/bramble-app/bramble-go/internal/realtime"
	"github.com/bramble-app/bramble-go/internal/session"
)

var (
	email    = flag.String("email", "", "log in with this email before starting")
	password = flag.String("password", "", "password for -email")
	logout   = flag.Bool("logout", false, "clear the stored session and exit")
)

// tokenFunc adapts a closure to the API client's TokenSource.
type tokenFunc func() string

func (f tokenFunc) Token() string { return f() }

// identityFunc adapts a closure to the chat layer's Identity.
type identityFunc func() string

func (f identityFunc) UserID() string { return f() }

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration from environment
	cfg := config.Load()

	storage, err := authtoken.NewFileStorage(cfg.StateDir)
	if err != nil {
		log.Fatalf("failed to open state dir %s: %v", cfg.StateDir, err)
	}
	store := authtoken.NewStore(storage)

	var sess *session.Manager
	client := api.NewClient(cfg.APIURL, tokenFunc(func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	}), cfg.HTTPTimeout)

	inbox := chat.NewInbox(client, identityFunc(func() string {
		if sess == nil {
			return ""
		}
		return sess.UserID()
	}))

	// The realtime channel lives and dies with the authenticated session:
	// a new credential always gets a fresh connection.
	var (
		mu          sync.Mutex
		channel     *realtime.Channel
		detachInbox func()
		detachAll   []func()
	)

	sess = session.NewManager(store, session.Hooks{
		OnAuthenticated: func(token string) {
			mu.Lock()
			defer mu.Unlock()

			channel = realtime.NewChannel(realtime.Endpoint(cfg.APIURL), token)

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := channel.Connect(ctx); err != nil {
				log.Printf("[bramble] realtime connect failed: %v", err)
			}

			detachInbox = inbox.Start(channel)
			detachAll = watchFriendEvents(channel)
		},
		OnSignedOut: func() {
			mu.Lock()
			defer mu.Unlock()

			if detachInbox != nil {
				detachInbox()
				detachInbox = nil
			}
			for _, off := range detachAll {
				off()
			}
			detachAll = nil
			if channel != nil {
				channel.Close()
				channel = nil
			}
		},
	})

	ctx := context.Background()
	sess.Initialize(ctx)

	if *logout {
		if err := sess.ClearCredential(); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		log.Println("[bramble] signed out")
		return
	}

	if sess.State() == session.StateAnonymous && *email != "" {
		if err := sess.Login(ctx, client, *email, *password); err != nil {
			log.Fatalf("login failed: %v", err)
		}
	}

	if sess.State() != session.StateAuthenticated {
		log.Fatal("no session; run with -email and -password to log in")
	}

	if token := sess.Token(); authtoken.Expired(token) {
		log.Println("[bramble] stored token is expired; requests will likely fail")
	}

	for _, conv := range inbox.Load(ctx, 1, 50) {
		log.Printf("[bramble] %s | %s (unread %d)",
			chat.DisplayName(conv), chat.Preview(conv, sess.UserID()), int(conv.UnreadCount))
	}

	// SIGCONT stands in for the app-resume signal: one reconnect attempt
	// when the transport is down.
	resume := make(chan os.Signal, 1)
	signal.Notify(resume, syscall.SIGCONT)
	go func() {
		for range resume {
			mu.Lock()
			ch := channel
			mu.Unlock()
			if ch != nil {
				ch.OnAppForeground(context.Background())
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	log.Println("[bramble] watching for events, ^C to quit")
	<-stop

	mu.Lock()
	if channel != nil {
		channel.Close()
	}
	mu.Unlock()
}

// watchFriendEvents logs every friend-relationship event the server pushes.
func watchFriendEvents(channel *realtime.Channel) []func() {
	offs := []func(){
		channel.OnFriendRequest(func(req realtime.FriendRequest) {
			log.Printf("[bramble] friend request from @%s", req.FriendUsername)
		}),
	}
	for _, ev := range []struct {
		name  string
		label string
	}{
		{realtime.EventFriendRequestAccepted, "accepted your request"},
		{realtime.EventFriendRequestRejected, "rejected your request"},
		{realtime.EventFriendRemoved, "removed you"},
		{realtime.EventFriendBlocked, "blocked you"},
	} {
		ev := ev
		offs = append(offs, channel.OnFriendEvent(ev.name, func(e realtime.FriendEvent) {
			log.Printf("[bramble] @%s %s", e.FriendUsername, ev.label)
		}))
	}
	return offs
}
