package tui

import (
	"fmt"

	"promptvault/model"
	"promptvault/settings"
	"promptvault/state"
)

// controller subscribes to the state and settings hubs and turns events
// into UI reactions: status toasts, navigation to a changed default
// folder, and quitting after a copy when configured. Emission is
// synchronous, so reactions accumulate during a manager call and Update
// drains them afterwards.
type controller struct {
	mgr      *state.Manager
	settings *settings.Store

	toasts []toast
	quit   bool
	unsubs []func()
}

type toast struct {
	text  string
	isErr bool
}

func newController(mgr *state.Manager, st *settings.Store) *controller {
	c := &controller{mgr: mgr, settings: st}

	sub := func(t state.EventType, fn func(state.Event)) {
		c.unsubs = append(c.unsubs, mgr.Hub().Subscribe(t, fn))
	}

	sub(state.EventPromptAdded, func(e state.Event) {
		c.push(fmt.Sprintf("Prompt %q added", e.Prompt.Title), false)
	})
	sub(state.EventPromptUpdated, func(e state.Event) {
		c.push(fmt.Sprintf("Prompt %q updated", e.Prompt.Title), false)
	})
	sub(state.EventPromptAddFailed, func(e state.Event) {
		c.push(e.Err.Error(), true)
	})
	sub(state.EventPromptDeleted, func(e state.Event) {
		c.push(fmt.Sprintf("Prompt %q deleted", e.Prompt.Title), false)
	})
	sub(state.EventPromptFavoriteToggled, func(e state.Event) {
		if e.Favorite {
			c.push("Added to favorites", false)
		} else {
			c.push("Removed from favorites", false)
		}
	})
	sub(state.EventPromptCopied, func(e state.Event) {
		c.push("Copied to clipboard", false)
		if c.settings.Settings().AutoCloseAfterCopy {
			c.quit = true
		}
	})
	sub(state.EventFolderCreated, func(e state.Event) {
		c.push(fmt.Sprintf("Folder %q created", e.Folder.Name), false)
	})
	sub(state.EventFolderCreateFailed, func(e state.Event) {
		c.push(e.Err.Error(), true)
	})
	sub(state.EventFolderEdited, func(e state.Event) {
		c.push("Folder updated", false)
	})
	sub(state.EventFolderEditFailed, func(e state.Event) {
		c.push(e.Err.Error(), true)
	})
	sub(state.EventFolderDeleted, func(e state.Event) {
		c.push(fmt.Sprintf("Folder %q deleted", e.FolderName), false)
	})
	sub(state.EventFolderDeleteFailed, func(e state.Event) {
		c.push(e.Err.Error(), true)
	})
	sub(state.EventPromptsImported, func(e state.Event) {
		c.push(fmt.Sprintf("Imported %d prompts", e.Count), false)
	})
	sub(state.EventPromptsImportFailed, func(e state.Event) {
		c.push(e.Err.Error(), true)
	})
	sub(state.EventDataReset, func(e state.Event) {
		c.push("Library reset to defaults", false)
	})
	sub(state.EventDataCleared, func(e state.Event) {
		c.push("All data cleared", false)
	})

	c.unsubs = append(c.unsubs, st.Hub().Subscribe(settings.EventChanged, func(e settings.Event) {
		if e.Key == "defaultFolder" {
			if folderID, ok := e.Value.(string); ok {
				mgr.SetCurrentFolder(folderID)
			}
		}
		c.push(fmt.Sprintf("Setting %s updated", e.Key), false)
	}))
	c.unsubs = append(c.unsubs, st.Hub().Subscribe(settings.EventReset, func(e settings.Event) {
		c.push("Settings reset to defaults", false)
	}))
	c.unsubs = append(c.unsubs, st.Hub().Subscribe(settings.EventImported, func(e settings.Event) {
		c.push("Settings imported", false)
	}))
	c.unsubs = append(c.unsubs, st.Hub().Subscribe(settings.EventImportFailed, func(e settings.Event) {
		c.push(e.Err.Error(), true)
	}))

	return c
}

// push respects the showToasts preference for informational toasts;
// errors always surface.
func (c *controller) push(text string, isErr bool) {
	if !isErr && !c.settings.Settings().ShowToasts {
		return
	}
	c.toasts = append(c.toasts, toast{text: text, isErr: isErr})
}

// drain returns the accumulated reactions and clears them.
func (c *controller) drain() (toasts []toast, quit bool) {
	toasts = c.toasts
	quit = c.quit
	c.toasts = nil
	c.quit = false
	return toasts, quit
}

func (c *controller) close() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}

// currentTheme resolves the configured theme; terminals report no system
// preference, so auto falls back to dark which most terminals match.
func (c *controller) currentTheme() model.Theme {
	return settings.ResolveTheme(c.settings.Settings(), func() bool { return true })
}
