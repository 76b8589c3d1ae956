// Package fetch loads documents from files and URLs.
//
// Local paths and non-HTTP schemes are read through github.com/viant/afs.
// HTTP(S) locators are fetched with net/http and decoded according to the
// response's declared charset. Parsed documents are cached by locator;
// callers always receive their own copy.
package fetch
