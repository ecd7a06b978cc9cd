// Package cookiebridge is the native-messaging backend for a cookie manager
// browser extension. The extension popup sends JSON actions (list, save,
// delete, bulk delete, bulk import) over the Chrome/Firefox native messaging
// protocol; the host translates them into cookie store reads and writes and
// answers with single records or aggregated bulk results.
//
// It reads and writes local browser cookie stores (Chromium-family, Firefox)
// and should not be used in server contexts.
package cookiebridge
