// Package printing renders HR documents (leave application previews and
// invoices) from HTML templates to PDF via the Chrome DevTools Protocol.
package printing
