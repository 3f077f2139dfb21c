package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"wedding-invites/internal/api"
	"wedding-invites/internal/config"
	"wedding-invites/internal/handler"
	"wedding-invites/internal/models"
	"wedding-invites/internal/realtime"
	"wedding-invites/internal/rsvp"
	"wedding-invites/internal/store"
	"wedding-invites/internal/sync"
	"wedding-invites/internal/whatsapp"
)

func main() {
	fmt.Println("🎉 Invitation Manager")
	fmt.Println("=====================")

	cfg := config.LoadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(cfg.APIBaseURL, cfg.APIToken)

	// Realtime channel: PubNub when keys are configured, otherwise an
	// in-process channel so the CLI still works offline.
	var channel realtime.Channel
	if cfg.PubNubSubscribeKey != "" {
		channel = realtime.NewPubNubChannel(realtime.PubNubConfig{
			PublishKey:   cfg.PubNubPublishKey,
			SubscribeKey: cfg.PubNubSubscribeKey,
			UserID:       cfg.UserID,
			ChannelName:  cfg.PubNubChannel,
		})
	} else {
		channel = realtime.NewMemoryChannel()
	}
	defer channel.Close()

	// WhatsApp delivery transport.
	var sender whatsapp.Sender
	var waService *whatsapp.Service
	if cfg.DirectWhatsApp {
		svc, err := whatsapp.NewService(&whatsapp.Config{DataDir: cfg.WhatsAppDataDir})
		if err != nil {
			fmt.Printf("Error initializing WhatsApp service: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Connecting to WhatsApp...")
		if err := svc.Connect(); err != nil {
			fmt.Printf("Error connecting to WhatsApp: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Connected to WhatsApp!")
		sender = svc
		waService = svc
	} else {
		sender = whatsapp.NewBrokerSender(client, cfg.UserID)
	}

	eventStore := store.NewEventStore()
	eventSyncer := sync.NewEventSyncer(client, eventStore, channel)
	if err := eventSyncer.Start(ctx); err != nil {
		exitOnAuthError(err)
		fmt.Printf("Error loading events: %v\n", err)
		os.Exit(1)
	}
	defer eventSyncer.Stop()

	app := &cli{
		ctx:         ctx,
		cfg:         cfg,
		api:         client,
		channel:     channel,
		sender:      sender,
		waService:   waService,
		eventStore:  eventStore,
		eventSyncer: eventSyncer,
		scanner:     bufio.NewScanner(os.Stdin),
	}
	go app.run()

	// Wait for interrupt signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("\n\nShutting down...")
	if waService != nil {
		waService.Disconnect()
	}
	fmt.Println("Goodbye! 👋")
}

type cli struct {
	ctx         context.Context
	cfg         *config.Config
	api         *api.Client
	channel     realtime.Channel
	sender      whatsapp.Sender
	waService   *whatsapp.Service
	eventStore  *store.EventStore
	eventSyncer *sync.EventSyncer
	scanner     *bufio.Scanner
}

func (c *cli) run() {
	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. View events")
		fmt.Println("  2. Manage an event's guests")
		fmt.Println("  3. Create event")
		fmt.Println("  4. Answer an RSVP (invitation link)")
		fmt.Println("  5. Exit")
		fmt.Print("\nEnter command (1-5): ")

		if !c.scanner.Scan() {
			return
		}

		switch strings.TrimSpace(c.scanner.Text()) {
		case "1":
			c.viewEvents()
		case "2":
			c.manageGuests()
		case "3":
			c.createEvent()
		case "4":
			c.answerRSVP()
		case "5":
			fmt.Println("Exiting...")
			os.Exit(0)
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

func (c *cli) viewEvents() {
	events := c.eventStore.Events()
	if len(events) == 0 {
		fmt.Println("\nNo events found.")
		return
	}

	fmt.Printf("\n📋 Events (%d total):\n", len(events))
	fmt.Println(strings.Repeat("-", 60))
	for _, e := range events {
		fmt.Printf("ID: %s\n", e.ID)
		fmt.Printf("Name: %s\n", e.Name)
		fmt.Printf("Date: %s %s\n", e.Date, e.Time)
		fmt.Printf("Location: %s\n", e.Location)

		// Per-card counters: recomputed client-side from the guest list,
		// semantically equivalent to the server's stats endpoint.
		if guests, err := c.api.GuestsByEvent(c.ctx, e.ID); err == nil {
			st := statsLine(guests)
			fmt.Printf("Guests: %s\n", st)
		}
		fmt.Println(strings.Repeat("-", 60))
	}
}

func statsLine(guests []models.Guest) string {
	gs := store.NewGuestStore()
	gs.ReplaceAll(guests)
	st := gs.Stats()
	return fmt.Sprintf("%d invited | confirmed %d (+%d) | pending %d (+%d) | expected %d",
		st.TotalGuests,
		st.TotalConfirmedGuests, st.TotalConfirmedAccompanying,
		st.TotalPendingGuests, st.TotalPendingAccompanying,
		st.TotalGeneralWithAccompanying)
}

func (c *cli) createEvent() {
	e := models.Event{
		Name:     c.prompt("Event name: "),
		Date:     c.prompt("Date (YYYY-MM-DD): "),
		Time:     c.prompt("Time (HH:MM): "),
		Location: c.prompt("Location: "),
	}
	if capacity := c.prompt("Capacity: "); capacity != "" {
		if n, err := strconv.Atoi(capacity); err == nil {
			e.Capacity = n
		}
	}

	created, err := c.eventSyncer.CreateEvent(c.ctx, e)
	if err != nil {
		exitOnAuthError(err)
		fmt.Printf("❌ Error creating event: %v\n", err)
		return
	}
	fmt.Printf("✅ Event created with ID %s\n", created.ID)
}

func (c *cli) manageGuests() {
	eventID := c.prompt("Enter event ID: ")
	if eventID == "" {
		return
	}

	guestStore := store.NewGuestStore()
	syncer := sync.NewGuestSyncer(c.api, guestStore, c.channel, eventID)
	if err := syncer.Start(c.ctx); err != nil {
		exitOnAuthError(err)
		fmt.Printf("Error loading guests: %v\n", err)
		return
	}
	defer syncer.Stop()

	invites := handler.NewInviteHandler(c.sender, syncer, guestStore, &handler.Config{
		EventName:     c.cfg.EventName,
		EventDate:     c.cfg.EventDate,
		EventLocation: c.cfg.EventLocation,
		HostName:      c.cfg.HostName,
	})
	if c.waService != nil {
		c.waService.SetMessageHandler(invites.HandleMessage)
		defer c.waService.SetMessageHandler(nil)
	}

	for {
		st := guestStore.Stats()
		fmt.Printf("\n— %d guests | confirmed %d | pending %d | expected attendance %d —\n",
			st.TotalGuests, st.TotalConfirmedGuests, st.TotalPendingGuests,
			st.TotalGeneralWithAccompanying)
		fmt.Println("  1. View guests")
		fmt.Println("  2. Add guest")
		fmt.Println("  3. Edit guest")
		fmt.Println("  4. Delete guest")
		fmt.Println("  5. Replace guest")
		fmt.Println("  6. Send invitation")
		fmt.Println("  7. Back")
		fmt.Print("\nEnter command (1-7): ")

		if !c.scanner.Scan() {
			return
		}

		switch strings.TrimSpace(c.scanner.Text()) {
		case "1":
			c.viewGuests(guestStore)
		case "2":
			c.addGuest(syncer)
		case "3":
			c.editGuest(syncer, guestStore)
		case "4":
			if id := c.prompt("Enter guest ID: "); id != "" {
				if err := syncer.RemoveGuest(c.ctx, id); err != nil {
					fmt.Printf("❌ Error deleting guest: %v\n", err)
				}
			}
		case "5":
			c.replaceGuest(syncer)
		case "6":
			if id := c.prompt("Enter guest ID: "); id != "" {
				if err := invites.SendInvitation(c.ctx, id); err != nil {
					fmt.Printf("❌ Error sending invitation: %v\n", err)
				} else {
					fmt.Println("✅ Invitation sent successfully!")
				}
			}
		case "7":
			return
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

func (c *cli) viewGuests(guestStore *store.GuestStore) {
	guests := guestStore.Guests()
	if len(guests) == 0 {
		fmt.Println("\nNo guests found.")
		return
	}

	fmt.Printf("\n📋 Guests (%d total):\n", len(guests))
	fmt.Println(strings.Repeat("-", 60))
	for _, g := range guests {
		fmt.Printf("ID: %s\n", g.ID)
		fmt.Printf("Name: %s\n", g.Name)
		fmt.Printf("Phone: %s\n", g.Phone)
		fmt.Printf("Status: %s\n", g.Status)
		if g.CompanionSeats() > 0 {
			fmt.Printf("Companion seats: %d\n", g.CompanionSeats())
		}
		if len(g.AdditionalGuestNames) > 0 {
			fmt.Printf("Companions: %s\n", strings.Join(g.AdditionalGuestNames, ", "))
		}
		if len(g.SuggestedSongs) > 0 {
			fmt.Printf("Songs: %s\n", strings.Join(g.SuggestedSongs, ", "))
		}
		if g.PersonalMessage != "" {
			fmt.Printf("Message: %s\n", g.PersonalMessage)
		}
		fmt.Println(strings.Repeat("-", 60))
	}
}

func (c *cli) addGuest(syncer *sync.GuestSyncer) {
	g, ok := c.readGuestForm()
	if !ok {
		return
	}
	created, err := syncer.AddGuest(c.ctx, g)
	if err != nil {
		exitOnAuthError(err)
		fmt.Printf("❌ Error adding guest: %v\n", err)
		return
	}
	fmt.Printf("✅ Guest added with ID %s\n", created.ID)
}

func (c *cli) editGuest(syncer *sync.GuestSyncer, guestStore *store.GuestStore) {
	id := c.prompt("Enter guest ID: ")
	g, ok := guestStore.Get(id)
	if !ok {
		fmt.Println("Guest not found.")
		return
	}
	if name := c.prompt(fmt.Sprintf("Name [%s]: ", g.Name)); name != "" {
		g.Name = name
	}
	if phone := c.prompt(fmt.Sprintf("Phone [%s]: ", g.Phone)); phone != "" {
		g.Phone = whatsapp.NormalizePhoneNumber(phone)
	}
	if seats := c.prompt(fmt.Sprintf("Companion seats [%d]: ", g.CompanionSeats())); seats != "" {
		if n, err := strconv.Atoi(seats); err == nil && n >= 0 {
			g.NumberOfGuests = &n
		}
	}
	if _, err := syncer.EditGuest(c.ctx, g); err != nil {
		fmt.Printf("❌ Error updating guest: %v\n", err)
	}
}

func (c *cli) replaceGuest(syncer *sync.GuestSyncer) {
	id := c.prompt("Enter ID of the guest being replaced: ")
	if id == "" {
		return
	}
	g, ok := c.readGuestForm()
	if !ok {
		return
	}
	if _, err := syncer.ReplaceGuest(c.ctx, id, g); err != nil {
		fmt.Printf("❌ Error replacing guest: %v\n", err)
		return
	}
	fmt.Println("✅ Guest replaced; RSVP reset to pending.")
}

func (c *cli) readGuestForm() (models.Guest, bool) {
	name := c.prompt("Enter guest name: ")
	if name == "" {
		return models.Guest{}, false
	}
	phone := c.prompt("Enter phone number (with country code): ")
	if phone == "" {
		return models.Guest{}, false
	}
	g := models.Guest{
		Name:  name,
		Phone: whatsapp.NormalizePhoneNumber(phone),
	}
	if seats := c.prompt("Companion seats (0 for none): "); seats != "" {
		if n, err := strconv.Atoi(seats); err == nil && n > 0 {
			g.NumberOfGuests = &n
		}
	}
	return g, true
}

func (c *cli) answerRSVP() {
	link := c.prompt("Paste the invitation link: ")
	page, err := rsvp.Load(c.ctx, c.api, link)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	guest := page.Guest()
	if page.State() == rsvp.StateSubmitted {
		fmt.Printf("\n%s already answered: %s. Thank you!\n", guest.Name, guest.Status)
		return
	}

	fmt.Printf("\nHello %s!\n", guest.Name)
	attending := strings.EqualFold(c.prompt("Will you attend? (yes/no): "), "yes")

	form := rsvp.Form{WillAttend: attending}
	if attending && guest.CompanionSeats() > 0 {
		fmt.Printf("You have %d companion seat(s).\n", guest.CompanionSeats())
		for i := 0; i < guest.CompanionSeats(); i++ {
			name := c.prompt(fmt.Sprintf("Companion %d name (blank to stop): ", i+1))
			if name == "" {
				break
			}
			form.AdditionalGuestNames = append(form.AdditionalGuestNames, name)
		}
	}
	if attending {
		for {
			song := c.prompt("Suggest a song (blank to stop): ")
			if song == "" {
				break
			}
			form.SuggestedSongs = append(form.SuggestedSongs, song)
		}
	}
	form.PersonalMessage = c.prompt("Personal message (optional): ")

	if err := page.Submit(c.ctx, form); err != nil {
		fmt.Printf("❌ Could not submit your answer: %v\nThe form is still open; please try again.\n", err)
		return
	}
	fmt.Println("✅ Your answer has been recorded. Thank you!")
}

func (c *cli) prompt(label string) string {
	fmt.Print(label)
	if !c.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(c.scanner.Text())
}

// exitOnAuthError tears the session down on a 401; expired sessions are
// fatal, never retried.
func exitOnAuthError(err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		fmt.Println("Session expired. Please sign in again.")
		os.Exit(1)
	}
}
