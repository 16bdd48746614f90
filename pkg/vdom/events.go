package vdom

// On binds handler to the named event, e.g. On("click", fn).
func On(name string, handler Listener) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

func OnClick(handler Listener) EventHandler   { return On("click", handler) }
func OnInput(handler Listener) EventHandler   { return On("input", handler) }
func OnChange(handler Listener) EventHandler  { return On("change", handler) }
func OnSubmit(handler Listener) EventHandler  { return On("submit", handler) }
func OnKeyDown(handler Listener) EventHandler { return On("keydown", handler) }
func OnFocus(handler Listener) EventHandler   { return On("focus", handler) }
func OnBlur(handler Listener) EventHandler    { return On("blur", handler) }
