// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/chat"
	"github.com/amora-app/amora-go/internal/config"
	"github.com/amora-app/amora-go/internal/connections"
	"github.com/amora-app/amora-go/internal/discovery"
	"github.com/amora-app/amora-go/internal/localstore"
	"github.com/amora-app/amora-go/internal/media"
	"github.com/amora-app/amora-go/internal/models"
	"github.com/amora-app/amora-go/internal/payments"
	"github.com/amora-app/amora-go/internal/profile"
	"github.com/amora-app/amora-go/internal/session"
)

type app struct {
	cfg      *config.Config
	store    *localstore.Store
	client   *api.Client
	sessions *session.Manager
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "signup":
		return a.signup(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		result := a.sessions.Logout(ctx)
		fmt.Println(result.Message)
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "profile":
		return a.profileCmd(ctx, args)
	case "browse":
		return a.browse(ctx)
	case "connect", "cancel", "accept", "reject":
		return a.transition(ctx, command, args)
	case "requests":
		return a.requests(ctx)
	case "chats":
		return a.chats(ctx, args)
	case "chat":
		return a.chat(ctx, args)
	case "gallery":
		return a.gallery(ctx, args)
	case "upload":
		return a.upload(ctx, args)
	case "delete", "like", "bookmark":
		return a.mediaAction(ctx, command, args)
	case "plans":
		return a.plans()
	case "upgrade":
		return a.upgrade(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireSession restores the saved session and returns the identity, or an
// error telling the user to log in.
func (a *app) requireSession(ctx context.Context) (*models.User, error) {
	result := a.sessions.Restore(ctx)
	if !result.Success {
		return nil, errors.New(result.Message)
	}
	if result.Message != "" {
		fmt.Fprintln(os.Stderr, result.Message)
	}
	return result.User, nil
}

func (a *app) selfID() string {
	if user := a.sessions.Current(); user != nil {
		return user.ID
	}
	return ""
}

func (a *app) signup(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.showDraft("signup")
		return errors.New("usage: amora signup <email> <password> <first> <last> <gender> <yyyy-mm-dd>")
	}
	if len(args) != 6 {
		return errors.New("usage: amora signup <email> <password> <first> <last> <gender> <yyyy-mm-dd>")
	}
	form := api.SignupForm{
		Email:     args[0],
		Password:  args[1],
		FirstName: args[2],
		LastName:  args[3],
		Gender:    args[4],
		DOB:       args[5],
	}
	result := a.sessions.Signup(ctx, form)
	if !result.Success {
		// Keep the form around for the retry, minus the password.
		form.Password = ""
		a.saveDraft("signup", form)
		return errors.New(result.Message)
	}
	if result.User == nil {
		fmt.Println("account created, run: amora login", args[0], "<password>")
		return nil
	}
	fmt.Println("welcome,", result.User.DisplayName())
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.showDraft("login")
		return errors.New("usage: amora login <email> <password>")
	}
	if len(args) != 2 {
		return errors.New("usage: amora login <email> <password>")
	}
	result := a.sessions.Login(ctx, api.Credentials{Email: args[0], Password: args[1]})
	if !result.Success {
		a.saveDraft("login", api.Credentials{Email: args[0]})
		return errors.New(result.Message)
	}
	fmt.Println("logged in as", result.User.DisplayName())
	return nil
}

// saveDraft stashes a partly filled form so the next attempt can pick it up.
// Draft failures are not worth surfacing over the real error.
func (a *app) saveDraft(kind string, form any) {
	payload, err := json.Marshal(form)
	if err != nil {
		return
	}
	_ = a.store.SaveDraft(kind, payload)
}

func (a *app) showDraft(kind string) {
	payload, err := a.store.Draft(kind)
	if err != nil {
		return
	}
	fmt.Fprintf(os.Stderr, "saved %s draft: %s\n", kind, payload)
}

func (a *app) whoami(ctx context.Context) error {
	user, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	percent, missing := profile.Completion(*user)
	fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
	if user.Premium {
		fmt.Println("plan:", user.PlanTier)
	}
	fmt.Printf("profile %d%% complete\n", percent)
	for _, label := range missing {
		fmt.Println("  missing:", label)
	}
	return nil
}

// profileCmd edits one field of the profile document. Edits go through the
// section patcher so the rest of the section travels with the change.
func (a *app) profileCmd(ctx context.Context, args []string) error {
	user, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return a.whoami(ctx)
	}
	if len(args) < 2 {
		return errors.New("usage: amora profile <bio|city|occupation|religion|interests> <value>")
	}

	value := strings.Join(args[1:], " ")
	var patch profile.Patch
	switch args[0] {
	case "bio":
		personal := user.Personal
		personal.Bio = value
		patch.Personal = &personal
	case "interests":
		personal := user.Personal
		personal.Interests = strings.Split(value, ",")
		patch.Personal = &personal
	case "city":
		location := user.Location
		location.City = value
		patch.Location = &location
	case "occupation":
		professional := user.Professional
		professional.Occupation = value
		patch.Professional = &professional
	case "religion":
		religious := user.Religious
		religious.Religion = value
		patch.Religious = &religious
	default:
		return fmt.Errorf("unknown profile field %q", args[0])
	}

	result := profile.NewEditor(a.sessions).Save(ctx, patch)
	if !result.Success {
		return errors.New(result.Message)
	}
	percent, _ := profile.Completion(*result.User)
	fmt.Printf("saved, profile %d%% complete\n", percent)
	return nil
}

func (a *app) browse(ctx context.Context) error {
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	feed := discovery.NewFeed(a.client, connections.NewService(a.client, a.selfID), a.selfID)
	if err := feed.Load(ctx); err != nil {
		return err
	}

	for _, card := range feed.Cards() {
		age := "age unknown"
		if card.Age > 0 {
			age = fmt.Sprintf("%d", card.Age)
		}
		fmt.Printf("%-24s  %s, %s", card.UserID, card.Name, age)
		if card.Location != "" {
			fmt.Printf("  (%s)", card.Location)
		}
		if card.Status != models.StatusNone {
			fmt.Printf("  [%s]", card.Status)
		}
		fmt.Println()
		if card.Bio != "" {
			fmt.Println("    ", card.Bio)
		}
		if len(card.Interests) > 0 {
			fmt.Println("    ", strings.Join(card.Interests, ", "))
		}
	}
	return nil
}

func (a *app) transition(ctx context.Context, command string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: amora %s <userId>", command)
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	conns := connections.NewService(a.client, a.selfID)
	var result connections.Result
	switch command {
	case "connect":
		result = conns.Send(ctx, args[0])
	case "cancel":
		result = conns.CancelBySender(ctx, args[0])
	case "accept":
		result = conns.Accept(ctx, args[0])
	case "reject":
		result = conns.Reject(ctx, args[0])
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Println(result.Message)
	return nil
}

func (a *app) requests(ctx context.Context) error {
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	incoming, err := connections.NewService(a.client, a.selfID).Incoming(ctx)
	if err != nil {
		return err
	}
	if len(incoming) == 0 {
		fmt.Println("no pending requests")
		return nil
	}
	for _, request := range incoming {
		name := request.Sender.DisplayName()
		if name == "" {
			name = request.SenderID
		}
		fmt.Printf("%-24s  %s\n", request.SenderID, name)
	}
	return nil
}

func (a *app) chats(ctx context.Context, args []string) error {
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	tabs, err := chat.LoadTabs(ctx, a.client, a.selfID())
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	fmt.Println("conversations:")
	for _, row := range chat.FilterRows(tabs.Primary, query) {
		fmt.Printf("  %-24s  %s", row.Peer.ID, row.Peer.DisplayName())
		if row.LastMessage != "" {
			fmt.Printf("  | %s", row.LastMessage)
		}
		fmt.Println()
	}
	fmt.Println("connections without messages:")
	for _, row := range chat.FilterRows(tabs.General, query) {
		fmt.Printf("  %-24s  %s\n", row.Peer.ID, row.Peer.DisplayName())
	}
	return nil
}

func (a *app) gallery(ctx context.Context, args []string) error {
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	filter := media.FilterAll
	if len(args) > 0 {
		switch args[0] {
		case "all":
		case "images":
			filter = media.FilterImages
		case "videos":
			filter = media.FilterVideos
		default:
			return errors.New("usage: amora gallery [all|images|videos]")
		}
	}

	gallery := media.NewGallery(a.client, a.selfID)
	if err := gallery.LoadMine(ctx); err != nil {
		return err
	}

	stats := gallery.Stats()
	fmt.Printf("%d items (%d images, %d videos)\n", stats.Total, stats.Images, stats.Videos)
	for _, item := range gallery.Items(filter) {
		marks := ""
		if item.Liked {
			marks += " liked"
		}
		if item.Bookmarked {
			marks += " saved"
		}
		fmt.Printf("%-24s  %-5s  %3d likes  %s%s\n",
			item.ID, item.MediaType, item.Likes, item.Caption, marks)
	}
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: amora upload <file> [caption] [privacy]")
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	upload := api.ReelUpload{
		FileName: args[0],
		MIME:     media.MIMEForFileName(args[0]),
		Content:  content,
		Privacy:  models.PrivacyPublic,
	}
	if len(args) > 1 {
		upload.Caption = args[1]
	}
	if len(args) > 2 {
		upload.Privacy = models.MediaPrivacy(args[2])
	}

	gallery := media.NewGallery(a.client, a.selfID)
	result := gallery.Upload(ctx, upload, func(pct int) {
		fmt.Fprintf(os.Stderr, "\ruploading %3d%%", pct)
	})
	fmt.Fprintln(os.Stderr)
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Println("uploaded", result.Item.ID)
	return nil
}

func (a *app) mediaAction(ctx context.Context, command string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: amora %s <itemId>", command)
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	gallery := media.NewGallery(a.client, a.selfID)
	if err := gallery.LoadMine(ctx); err != nil {
		return err
	}

	switch command {
	case "delete":
		// Destructive, so confirm before any request goes out.
		fmt.Printf("delete %s? [y/N] ", args[0])
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(answer) != "y" {
			fmt.Println("kept")
			return nil
		}
		if err := gallery.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
	case "like", "bookmark":
		var result media.ToggleResult
		if command == "like" {
			result = gallery.Like(ctx, args[0])
		} else {
			result = gallery.Bookmark(ctx, args[0])
		}
		if !result.Success {
			return errors.New(result.Message)
		}
		state := "off"
		if result.Active {
			state = "on"
		}
		fmt.Printf("%s %s (%d)\n", command, state, result.Count)
	}
	return nil
}

func (a *app) plans() error {
	for _, plan := range payments.Plans() {
		fmt.Printf("%-10s  %d %s\n", plan.Name, plan.Price, plan.Currency)
		for _, perk := range plan.Perks {
			fmt.Println("    ", perk)
		}
	}
	return nil
}

func (a *app) upgrade(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: amora upgrade <silver|gold|platinum>")
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	svc := payments.NewService(a.client, &terminalCheckout{keyID: a.cfg.Checkout.KeyID}, a.selfID)
	result := svc.Upgrade(ctx, models.PlanTier(args[0]))
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Println(result.Message)

	// The verified upgrade changed the account; refresh the cached copy.
	if refreshed := a.sessions.Restore(ctx); refreshed.Success && refreshed.User.Premium {
		fmt.Println("plan:", refreshed.User.PlanTier)
	}
	return nil
}

// terminalCheckout stands in for the hosted checkout widget: it prints the
// order and reads the gateway's completion from stdin.
type terminalCheckout struct {
	keyID string
}

func (t *terminalCheckout) Open(ctx context.Context, order models.PaymentOrder) (models.PaymentCompletion, error) {
	keyID := order.KeyID
	if keyID == "" {
		keyID = t.keyID
	}
	fmt.Printf("order %s: %d %s (key %s)\n", order.OrderID, order.Amount, order.Currency, keyID)
	fmt.Print("paste <paymentId> <signature>: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return models.PaymentCompletion{}, errors.New("checkout aborted")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 2 {
		return models.PaymentCompletion{}, errors.New("expected <paymentId> <signature>")
	}
	return models.PaymentCompletion{
		OrderID:   order.OrderID,
		PaymentID: fields[0],
		Signature: fields[1],
	}, nil
}
