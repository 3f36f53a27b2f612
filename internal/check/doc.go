// Package check runs the Google Drive credential diagnostic.
//
// A run is a fixed, ordered list of probes. Each probe receives the shared
// *State, performs one self-contained check against the token endpoint or the
// Drive API, prints human-readable progress to the Console and returns an
// Outcome. The Runner records a Result per probe in declared order, stops after
// the first failed critical probe (Environment Loading, Token Refresh, Drive
// Service) and recovers probe panics as failures. PrintSummary renders the final
// table and next-step hints.
//
// Nothing is retried and nothing is rolled back: a Folder Operations probe that
// fails after creating its test folder leaves that folder in Drive.
package check
