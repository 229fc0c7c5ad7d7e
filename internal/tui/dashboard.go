// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-pantry-keeper/internal/adapter"
	"github.com/MKhiriev/go-pantry-keeper/internal/projection"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type dashboardMode int

const (
	modeList dashboardMode = iota
	modeForm
	modeConfirmDelete
	modeProfileView
	modeProfileEdit
	modeSearch
)

const expiresLayout = "2006-01-02"

// dashboardModel is the main screen: a live view of the user's pantry backed
// by the projection controller, plus forms for item and profile mutations.
type dashboardModel struct {
	ctx           context.Context
	controller    *projection.Controller
	serverAdapter adapter.ServerAdapter
	session       models.Session

	mode   dashboardMode
	items  []models.Item
	idx    int
	filter string

	// form state, shared between create and edit; editID empty means create
	formInputs []textinput.Model
	formFocus  int
	editID     string

	searchInput textinput.Model

	profile       models.Profile
	profileInputs []textinput.Model
	profileFocus  int

	status string
	errMsg string
	logout bool
}

func newDashboardModel(ctx context.Context, controller *projection.Controller, serverAdapter adapter.ServerAdapter, session models.Session) dashboardModel {
	search := textinput.New()
	search.Placeholder = "item name"
	search.CharLimit = 128

	return dashboardModel{
		ctx:           ctx,
		controller:    controller,
		serverAdapter: serverAdapter,
		session:       session,
		items:         controller.Items(),
		searchInput:   search,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.waitForProjection()
}

// waitForProjection blocks on the controller's change signal and converts it
// into a bubbletea message. It is re-issued after every delivery so the
// dashboard keeps following the projection for the whole session.
func (m dashboardModel) waitForProjection() tea.Cmd {
	ctx := m.ctx
	updates := m.controller.Updates()
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
			return projectionChangedMsg{}
		}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectionChangedMsg:
		m.items = m.controller.Items()
		if m.idx >= len(m.items) {
			m.idx = max(0, len(m.items)-1)
		}
		return m, m.waitForProjection()

	case createDoneMsg:
		if msg.err != nil {
			m.errMsg = mutationErrorText(msg.err)
			return m, nil
		}
		m.status = "item saved"
		m.mode = modeList
		return m, nil

	case updateDoneMsg:
		if msg.err != nil {
			m.errMsg = mutationErrorText(msg.err)
			return m, nil
		}
		m.status = "item updated"
		m.mode = modeList
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.errMsg = mutationErrorText(msg.err)
			m.mode = modeList
			return m, nil
		}
		m.status = "item deleted"
		m.mode = modeList
		return m, nil

	case profileLoadedMsg:
		if msg.err != nil {
			m.errMsg = "could not load profile"
			m.mode = modeList
			return m, nil
		}
		m.profile = msg.profile
		m.mode = modeProfileView
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			m.errMsg = mutationErrorText(msg.err)
			return m, nil
		}
		m.profile = msg.profile
		m.status = "profile saved"
		m.mode = modeProfileView
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeProfileView:
		return m.handleProfileViewKey(msg)
	case modeProfileEdit:
		return m.handleProfileEditKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	}
	return m, nil
}

func (m dashboardModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.errMsg = ""

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.logout):
		m.logout = true
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.newItem):
		m.startForm(models.Item{})
		return m, textinput.Blink
	case key.Matches(msg, keys.edit):
		if item, ok := m.selected(); ok {
			m.startForm(item)
			return m, textinput.Blink
		}
	case key.Matches(msg, keys.delete):
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, keys.profile):
		return m, m.loadProfile()
	case key.Matches(msg, keys.search):
		m.searchInput.SetValue(m.filter)
		m.searchInput.Focus()
		m.mode = modeSearch
		return m, textinput.Blink
	case key.Matches(msg, keys.esc):
		if m.filter != "" {
			return m.applyFilter("")
		}
	}
	return m, nil
}

func (m *dashboardModel) selected() (models.Item, bool) {
	if m.idx < 0 || m.idx >= len(m.items) {
		return models.Item{}, false
	}
	return m.items[m.idx], true
}

// ─────────────────────────── item form ───────────────────────────

func (m *dashboardModel) startForm(item models.Item) {
	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 128
	name.SetValue(item.Name)
	name.Focus()

	quantity := textinput.New()
	quantity.Placeholder = "quantity"
	quantity.CharLimit = 16
	if item.ID != "" {
		quantity.SetValue(strconv.FormatFloat(item.Quantity, 'f', -1, 64))
	}

	category := textinput.New()
	category.Placeholder = "category (optional)"
	category.CharLimit = 64
	category.SetValue(item.Category)

	unit := textinput.New()
	unit.Placeholder = "unit, e.g. kg (optional)"
	unit.CharLimit = 16
	unit.SetValue(item.Unit)

	expires := textinput.New()
	expires.Placeholder = "expires YYYY-MM-DD (optional)"
	expires.CharLimit = 10
	if item.ExpiresAt != nil {
		expires.SetValue(item.ExpiresAt.Format(expiresLayout))
	}

	image := textinput.New()
	image.Placeholder = "image file path (optional)"
	image.CharLimit = 256

	m.formInputs = []textinput.Model{name, quantity, category, unit, expires, image}
	m.formFocus = 0
	m.editID = item.ID
	m.errMsg = ""
	m.mode = modeForm
}

func (m dashboardModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode = modeList
		m.errMsg = ""
		return m, nil
	case key.Matches(msg, keys.tab), key.Matches(msg, keys.down):
		m.formInputs[m.formFocus].Blur()
		m.formFocus = (m.formFocus + 1) % len(m.formInputs)
		m.formInputs[m.formFocus].Focus()
		return m, nil
	case key.Matches(msg, keys.backtab), key.Matches(msg, keys.up):
		m.formInputs[m.formFocus].Blur()
		m.formFocus = (m.formFocus + len(m.formInputs) - 1) % len(m.formInputs)
		m.formInputs[m.formFocus].Focus()
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.formFocus < len(m.formInputs)-1 {
			m.formInputs[m.formFocus].Blur()
			m.formFocus++
			m.formInputs[m.formFocus].Focus()
			return m, nil
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m dashboardModel) submitForm() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.formInputs[0].Value())
	quantityRaw := strings.TrimSpace(m.formInputs[1].Value())
	category := strings.TrimSpace(m.formInputs[2].Value())
	unit := strings.TrimSpace(m.formInputs[3].Value())
	expiresRaw := strings.TrimSpace(m.formInputs[4].Value())
	imagePath := strings.TrimSpace(m.formInputs[5].Value())

	quantity, err := strconv.ParseFloat(quantityRaw, 64)
	if err != nil {
		m.errMsg = "quantity must be a number"
		return m, nil
	}

	var expiresAt *time.Time
	if expiresRaw != "" {
		parsed, err := time.Parse(expiresLayout, expiresRaw)
		if err != nil {
			m.errMsg = "expiration date must be YYYY-MM-DD"
			return m, nil
		}
		expiresAt = &parsed
	}

	var asset *models.Asset
	if imagePath != "" {
		loaded, err := loadAsset(imagePath)
		if err != nil {
			m.errMsg = "could not read image file"
			return m, nil
		}
		asset = loaded
	}

	m.errMsg = ""
	ctx := m.ctx
	controller := m.controller

	if m.editID == "" {
		draft := models.ItemDraft{
			Name:      name,
			Quantity:  quantity,
			Category:  category,
			Unit:      unit,
			ExpiresAt: expiresAt,
		}
		return m, func() tea.Msg {
			_, err := controller.CreateItem(ctx, draft, asset)
			return createDoneMsg{err: err}
		}
	}

	itemID := m.editID
	patch := models.ItemPatch{
		Name:      &name,
		Quantity:  &quantity,
		Category:  &category,
		Unit:      &unit,
		ExpiresAt: expiresAt,
	}
	return m, func() tea.Msg {
		_, err := controller.UpdateItem(ctx, itemID, patch, asset)
		return updateDoneMsg{err: err}
	}
}

// loadAsset reads a local image file into an upload-ready asset.
func loadAsset(path string) (*models.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &models.Asset{
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// ─────────────────────────── delete confirm ───────────────────────────

func (m dashboardModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		item, ok := m.selected()
		if !ok {
			m.mode = modeList
			return m, nil
		}
		ctx := m.ctx
		controller := m.controller
		return m, func() tea.Msg {
			return deleteDoneMsg{err: controller.DeleteItem(ctx, item.ID)}
		}
	case key.Matches(msg, keys.no), key.Matches(msg, keys.esc):
		m.mode = modeList
	}
	return m, nil
}

// ─────────────────────────── search ───────────────────────────

func (m dashboardModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode = modeList
		return m, nil
	case key.Matches(msg, keys.enter):
		return m.applyFilter(strings.TrimSpace(m.searchInput.Value()))
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// applyFilter re-attaches the session with a new name filter, which replaces
// the live subscription and the projection wholesale.
func (m dashboardModel) applyFilter(filter string) (tea.Model, tea.Cmd) {
	m.filter = filter
	m.mode = modeList
	m.idx = 0

	ctx := m.ctx
	controller := m.controller
	session := m.session
	return m, func() tea.Msg {
		if err := controller.AttachSession(ctx, session, filter); err != nil {
			return createDoneMsg{err: err}
		}
		return nil
	}
}

// ─────────────────────────── profile ───────────────────────────

func (m dashboardModel) loadProfile() tea.Cmd {
	ctx := m.ctx
	serverAdapter := m.serverAdapter
	return func() tea.Msg {
		profile, err := serverAdapter.GetProfile(ctx)
		return profileLoadedMsg{profile: profile, err: err}
	}
}

func (m dashboardModel) handleProfileViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc), key.Matches(msg, keys.quit):
		m.mode = modeList
		m.status = ""
	case key.Matches(msg, keys.edit):
		m.startProfileEdit()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *dashboardModel) startProfileEdit() {
	firstName := textinput.New()
	firstName.Placeholder = "first name"
	firstName.CharLimit = 64
	firstName.SetValue(m.profile.FirstName)
	firstName.Focus()

	lastName := textinput.New()
	lastName.Placeholder = "last name"
	lastName.CharLimit = 64
	lastName.SetValue(m.profile.LastName)

	bio := textinput.New()
	bio.Placeholder = "bio"
	bio.CharLimit = 512
	bio.SetValue(m.profile.Bio)

	socialMedia := textinput.New()
	socialMedia.Placeholder = "social media link"
	socialMedia.CharLimit = 256
	socialMedia.SetValue(m.profile.SocialMedia)

	avatar := textinput.New()
	avatar.Placeholder = "avatar file path (optional)"
	avatar.CharLimit = 256

	m.profileInputs = []textinput.Model{firstName, lastName, bio, socialMedia, avatar}
	m.profileFocus = 0
	m.errMsg = ""
	m.mode = modeProfileEdit
}

func (m dashboardModel) handleProfileEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode = modeProfileView
		m.errMsg = ""
		return m, nil
	case key.Matches(msg, keys.tab), key.Matches(msg, keys.down):
		m.profileInputs[m.profileFocus].Blur()
		m.profileFocus = (m.profileFocus + 1) % len(m.profileInputs)
		m.profileInputs[m.profileFocus].Focus()
		return m, nil
	case key.Matches(msg, keys.backtab), key.Matches(msg, keys.up):
		m.profileInputs[m.profileFocus].Blur()
		m.profileFocus = (m.profileFocus + len(m.profileInputs) - 1) % len(m.profileInputs)
		m.profileInputs[m.profileFocus].Focus()
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.profileFocus < len(m.profileInputs)-1 {
			m.profileInputs[m.profileFocus].Blur()
			m.profileFocus++
			m.profileInputs[m.profileFocus].Focus()
			return m, nil
		}
		return m.submitProfile()
	}

	var cmd tea.Cmd
	m.profileInputs[m.profileFocus], cmd = m.profileInputs[m.profileFocus].Update(msg)
	return m, cmd
}

func (m dashboardModel) submitProfile() (tea.Model, tea.Cmd) {
	updated := m.profile
	updated.FirstName = strings.TrimSpace(m.profileInputs[0].Value())
	updated.LastName = strings.TrimSpace(m.profileInputs[1].Value())
	updated.Bio = strings.TrimSpace(m.profileInputs[2].Value())
	updated.SocialMedia = strings.TrimSpace(m.profileInputs[3].Value())
	avatarPath := strings.TrimSpace(m.profileInputs[4].Value())

	var asset *models.Asset
	if avatarPath != "" {
		loaded, err := loadAsset(avatarPath)
		if err != nil {
			m.errMsg = "could not read avatar file"
			return m, nil
		}
		asset = loaded
	}

	m.errMsg = ""
	ctx := m.ctx
	serverAdapter := m.serverAdapter
	return m, func() tea.Msg {
		// avatar upload first: a failed upload aborts the whole save
		if asset != nil {
			url, err := serverAdapter.UploadAvatar(ctx, *asset)
			if err != nil {
				return profileSavedMsg{err: err}
			}
			updated.AvatarURL = url
		}
		saved, err := serverAdapter.SaveProfile(ctx, updated)
		return profileSavedMsg{profile: saved, err: err}
	}
}

// ─────────────────────────── rendering ───────────────────────────

func (m dashboardModel) View() string {
	switch m.mode {
	case modeForm:
		return appStyle.Render(m.viewForm())
	case modeProfileView:
		return appStyle.Render(m.viewProfile())
	case modeProfileEdit:
		return appStyle.Render(m.viewProfileEdit())
	case modeSearch:
		return appStyle.Render(m.viewSearch())
	default:
		return appStyle.Render(m.viewList())
	}
}

func (m dashboardModel) viewList() string {
	var b strings.Builder
	title := "Pantry"
	if m.filter != "" {
		title += fmt.Sprintf(" · filter: %q", m.filter)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(helpStyle.Render("no items yet — press n to add one"))
		b.WriteString("\n")
	}

	now := time.Now()
	for i, item := range m.items {
		line := formatItemLine(item, now)
		switch {
		case i == m.idx:
			b.WriteString(selectedStyle.Render("> " + line))
		case isExpired(item, now):
			b.WriteString("  " + expiredStyle.Render(line))
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.mode == modeConfirmDelete {
		if item, ok := m.selected(); ok {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fmt.Sprintf("delete %q? (y/n)", item.Name)))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("n add · e edit · d delete · / search · p profile · l logout · q quit"))
	return b.String()
}

func formatItemLine(item models.Item, now time.Time) string {
	line := fmt.Sprintf("%s — %s", item.Name, strconv.FormatFloat(item.Quantity, 'f', -1, 64))
	if item.Unit != "" {
		line += " " + item.Unit
	}
	if item.Category != "" {
		line += fmt.Sprintf(" [%s]", item.Category)
	}
	if item.ExpiresAt != nil {
		if isExpired(item, now) {
			line += fmt.Sprintf(" (expired %s)", item.ExpiresAt.Format(expiresLayout))
		} else {
			line += fmt.Sprintf(" (until %s)", item.ExpiresAt.Format(expiresLayout))
		}
	}
	return line
}

func isExpired(item models.Item, now time.Time) bool {
	return item.ExpiresAt != nil && item.ExpiresAt.Before(now)
}

func (m dashboardModel) viewForm() string {
	var b strings.Builder
	if m.editID == "" {
		b.WriteString(titleStyle.Render("New item"))
	} else {
		b.WriteString(titleStyle.Render("Edit item"))
	}
	b.WriteString("\n\n")

	labels := []string{"Name", "Quantity", "Category", "Unit", "Expires", "Image"}
	for i, in := range m.formInputs {
		b.WriteString(labels[i])
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field · enter submit · esc cancel"))
	return b.String()
}

func (m dashboardModel) viewSearch() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Search by name"))
	b.WriteString("\n\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter apply · esc cancel (empty query clears the filter)"))
	return b.String()
}

func (m dashboardModel) viewProfile() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Profile"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Name:         %s %s\n", m.profile.FirstName, m.profile.LastName))
	b.WriteString(fmt.Sprintf("Email:        %s\n", m.profile.Email))
	b.WriteString(fmt.Sprintf("Bio:          %s\n", m.profile.Bio))
	b.WriteString(fmt.Sprintf("Social media: %s\n", m.profile.SocialMedia))
	b.WriteString(fmt.Sprintf("Avatar:       %s\n", m.profile.AvatarURL))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("e edit · esc back"))
	return b.String()
}

func (m dashboardModel) viewProfileEdit() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit profile"))
	b.WriteString("\n\n")

	labels := []string{"First name", "Last name", "Bio", "Social media", "Avatar"}
	for i, in := range m.profileInputs {
		b.WriteString(labels[i])
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field · enter save · esc cancel"))
	return b.String()
}

func mutationErrorText(err error) string {
	switch {
	case errors.Is(err, projection.ErrValidation):
		return err.Error()
	case errors.Is(err, projection.ErrAssetUpload):
		return "image upload failed, nothing was saved"
	case errors.Is(err, projection.ErrUnknownRecord):
		return "that item no longer exists"
	case errors.Is(err, projection.ErrOperationInFlight):
		return "a previous submission is still in progress"
	case errors.Is(err, adapter.ErrUnauthorized):
		return "session expired, please log in again"
	default:
		return "server unavailable, try again later"
	}
}
