package main

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/tenxcards/cardgen-api/internal/client"
	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/review"
)

const requestTimeout = 90 * time.Second

// App holds the terminal client state. All UI callbacks run on the tview
// event loop, which matches the single-goroutine contract of review.Session.
type App struct {
	api     *client.Client
	session *review.Session

	app        *tview.Application
	pages      *tview.Pages
	statusBar  *tview.TextView
	reviewList *tview.List
	detailView *tview.TextView
	sourceArea *tview.TextArea
}

func newApp(api *client.Client) *App {
	return &App{
		api:   api,
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
	}
}

// Run builds the UI and blocks until the user quits.
func (a *App) Run() error {
	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	a.pages.AddPage("login", a.buildLoginForm(), true, true)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	return a.app.SetRoot(root, true).Run()
}

func (a *App) setStatus(format string, args ...interface{}) {
	a.statusBar.SetText(fmt.Sprintf(format, args...))
}

func (a *App) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// buildLoginForm creates the sign-in screen with login and register actions.
func (a *App) buildLoginForm() tview.Primitive {
	form := tview.NewForm().
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil)

	credentials := func() (string, string) {
		email := form.GetFormItem(0).(*tview.InputField).GetText()
		password := form.GetFormItem(1).(*tview.InputField).GetText()
		return email, password
	}

	form.AddButton("Login", func() {
		email, password := credentials()
		ctx, cancel := a.requestContext()
		defer cancel()
		if _, err := a.api.Login(ctx, email, password); err != nil {
			a.setStatus("[red]Login failed: %v", err)
			return
		}
		a.showGenerateScreen()
	})
	form.AddButton("Register", func() {
		email, password := credentials()
		ctx, cancel := a.requestContext()
		defer cancel()
		if _, err := a.api.Register(ctx, email, password); err != nil {
			a.setStatus("[red]Registration failed: %v", err)
			return
		}
		a.showGenerateScreen()
	})
	form.AddButton("Quit", func() {
		a.app.Stop()
	})

	form.SetBorder(true).
		SetTitle(" Sign in ").
		SetTitleAlign(tview.AlignCenter)

	return center(form, 60, 13)
}

// showGenerateScreen displays the source text input screen.
func (a *App) showGenerateScreen() {
	a.sourceArea = tview.NewTextArea().
		SetPlaceholder("Paste source text here (1000-10000 characters)...")
	a.sourceArea.SetBorder(true).
		SetTitle(" Source text ").
		SetTitleAlign(tview.AlignCenter)

	form := tview.NewForm()
	form.AddButton("Generate", func() {
		a.generate(a.sourceArea.GetText())
	})
	form.AddButton("My cards", func() {
		a.showSavedCards()
	})
	form.AddButton("Quit", func() {
		a.app.Stop()
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.sourceArea, 0, 1, true).
		AddItem(form, 3, 0, false)

	a.pages.AddAndSwitchToPage("generate", layout, true)
	a.setStatus("Enter source text, then press Generate. Tab cycles focus.")
}

// generate submits the source text and opens the review screen on success.
func (a *App) generate(sourceText string) {
	trimmed := strings.TrimSpace(sourceText)
	if n := utf8.RuneCountInString(trimmed); n < domain.SourceTextMinLength || n > domain.SourceTextMaxLength {
		a.setStatus("[red]Source text must be between %d and %d characters (got %d)",
			domain.SourceTextMinLength, domain.SourceTextMaxLength, n)
		return
	}

	a.setStatus("Generating flashcards...")
	ctx, cancel := a.requestContext()
	defer cancel()

	result, err := a.api.GenerateFlashcards(ctx, trimmed)
	if err != nil {
		a.setStatus("[red]Generation failed: %v", err)
		return
	}

	proposals := make([]domain.FlashcardProposal, 0, len(result.Proposals))
	for _, p := range result.Proposals {
		proposals = append(proposals, domain.FlashcardProposal{
			Front:  p.Front,
			Back:   p.Back,
			Source: domain.SourceAIFull,
		})
	}
	a.session = review.NewSession(result.GenerationID, proposals)
	a.showReviewScreen()
}

// showReviewScreen displays the proposal list with accept/reject/edit keys.
func (a *App) showReviewScreen() {
	a.reviewList = tview.NewList().ShowSecondaryText(false)
	a.reviewList.SetBorder(true).
		SetTitle(" Proposals ").
		SetTitleAlign(tview.AlignCenter)

	a.detailView = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	a.detailView.SetBorder(true).
		SetTitle(" Card ").
		SetTitleAlign(tview.AlignCenter)

	a.reviewList.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		a.updateDetailView(index)
	})
	a.reviewList.SetInputCapture(a.handleReviewInput)

	layout := tview.NewFlex().
		AddItem(a.reviewList, 0, 1, true).
		AddItem(a.detailView, 0, 2, false)

	a.pages.AddAndSwitchToPage("review", layout, true)
	a.refreshReviewList()
	a.setStatus("a: accept  |  r: reject  |  e: edit  |  s: save accepted  |  S: save all  |  q: back")
}

// refreshReviewList rebuilds the list items from the session snapshot.
func (a *App) refreshReviewList() {
	current := a.reviewList.GetCurrentItem()
	a.reviewList.Clear()

	for i, p := range a.session.Proposals() {
		marker := "·"
		switch {
		case p.Accepted:
			marker = "[green]✔[white]"
		case p.Rejected:
			marker = "[red]✘[white]"
		}
		if p.Edited {
			marker += "*"
		}
		front := p.Front
		if runes := []rune(front); len(runes) > 40 {
			front = string(runes[:40]) + "…"
		}
		a.reviewList.AddItem(fmt.Sprintf("%s %d. %s", marker, i+1, front), "", 0, nil)
	}

	if a.session.Len() > 0 {
		if current < 0 || current >= a.session.Len() {
			current = 0
		}
		a.reviewList.SetCurrentItem(current)
		a.updateDetailView(current)
	} else {
		a.detailView.SetText("No proposals.")
	}
}

func (a *App) updateDetailView(index int) {
	proposals := a.session.Proposals()
	if index < 0 || index >= len(proposals) {
		return
	}
	p := proposals[index]

	var content strings.Builder
	content.WriteString("[::b]Front:[::-]\n")
	content.WriteString("[cyan]" + tview.Escape(p.Front) + "[white]\n\n")
	content.WriteString("[::b]Back:[::-]\n")
	content.WriteString("[yellow]" + tview.Escape(p.Back) + "[white]\n\n")

	switch {
	case p.Accepted:
		content.WriteString("[green]accepted[white]")
	case p.Rejected:
		content.WriteString("[red]rejected[white]")
	default:
		content.WriteString("undecided")
	}
	if p.Edited {
		content.WriteString("  [::d](edited)[::-]")
	}

	a.detailView.SetText(content.String())
}

// handleReviewInput processes the review screen's key bindings.
func (a *App) handleReviewInput(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}

	index := a.reviewList.GetCurrentItem()
	proposals := a.session.Proposals()

	switch event.Rune() {
	case 'a':
		if index >= 0 && index < len(proposals) {
			if err := a.session.Accept(proposals[index].ID); err != nil {
				a.setStatus("[red]%v", err)
				return nil
			}
			a.refreshReviewList()
		}
	case 'r':
		if index >= 0 && index < len(proposals) {
			if err := a.session.Reject(proposals[index].ID); err != nil {
				a.setStatus("[red]%v", err)
				return nil
			}
			a.refreshReviewList()
		}
	case 'e':
		if index >= 0 && index < len(proposals) {
			a.showEditForm(proposals[index])
		}
	case 's':
		a.save(review.SubsetAccepted)
	case 'S':
		a.save(review.SubsetAll)
	case 'q':
		a.showGenerateScreen()
	default:
		return event
	}
	return nil
}

// showEditForm opens an edit dialog for one proposal.
func (a *App) showEditForm(p review.Proposal) {
	form := tview.NewForm().
		AddInputField("Front", p.Front, 60, nil, nil).
		AddInputField("Back", p.Back, 60, nil, nil)

	form.AddButton("Save", func() {
		front := form.GetFormItem(0).(*tview.InputField).GetText()
		back := form.GetFormItem(1).(*tview.InputField).GetText()
		if err := a.session.SaveEdit(p.ID, front, back); err != nil {
			a.setStatus("[red]Edit rejected: %v", err)
			return
		}
		a.pages.RemovePage("edit")
		a.refreshReviewList()
		a.setStatus("Edit saved; card needs to be accepted again.")
	})
	form.AddButton("Cancel", func() {
		a.pages.RemovePage("edit")
	})

	form.SetBorder(true).
		SetTitle(" Edit card ").
		SetTitleAlign(tview.AlignCenter)

	a.pages.AddPage("edit", center(form, 70, 11), true, true)
}

// save submits the selected proposals and clears the session on success.
func (a *App) save(subset review.Subset) {
	commands, err := a.session.BuildSaveCommands(subset)
	if err != nil {
		a.setStatus("[red]Cannot save: %v", err)
		return
	}

	cards := make([]client.FlashcardCreate, 0, len(commands))
	for _, cmd := range commands {
		cards = append(cards, client.FlashcardCreate{
			Front:        cmd.Front,
			Back:         cmd.Back,
			Source:       string(cmd.Source),
			GenerationID: cmd.GenerationID,
		})
	}

	a.setStatus("Saving %d cards...", len(cards))
	ctx, cancel := a.requestContext()
	defer cancel()

	saved, err := a.api.SaveFlashcards(ctx, cards)
	if err != nil {
		a.setStatus("[red]Save failed, nothing was stored: %v", err)
		return
	}

	a.session.Clear()
	a.setStatus("[green]Saved %d cards.", len(saved))
	a.showGenerateScreen()
}

// showSavedCards lists the user's persisted flashcards, newest first.
func (a *App) showSavedCards() {
	ctx, cancel := a.requestContext()
	defer cancel()

	cards, err := a.api.ListFlashcards(ctx)
	if err != nil {
		a.setStatus("[red]Failed to list cards: %v", err)
		return
	}

	view := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	view.SetBorder(true).
		SetTitle(fmt.Sprintf(" Saved cards (%d) ", len(cards))).
		SetTitleAlign(tview.AlignCenter)

	var content strings.Builder
	for i, card := range cards {
		content.WriteString(fmt.Sprintf("[::b]%d. %s[::-]\n", i+1, tview.Escape(card.Front)))
		content.WriteString("   " + tview.Escape(card.Back) + "\n")
		content.WriteString(fmt.Sprintf("   [::d]%s, %s[::-]\n\n",
			card.Source, card.CreatedAt.Format("2006-01-02")))
	}
	if len(cards) == 0 {
		content.WriteString("No cards yet.")
	}
	view.SetText(content.String())

	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			a.showGenerateScreen()
			return nil
		}
		return event
	})

	a.pages.AddAndSwitchToPage("saved", view, true)
	a.setStatus("q: back")
}

// center wraps a primitive in a fixed-size centered box.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
