package check

// hints are printed for the first failed critical probe.
var hints = []struct {
	probe string
	title string
	steps []string
}{
	{
		probe: ProbeEnvironment,
		title: "To fix environment issues:",
		steps: []string{
			"1. Create a .env file in the working directory (or pass --env-file)",
			"2. Add your Google Drive API credentials",
			"3. Run this check again",
		},
	},
	{
		probe: ProbeTokenRefresh,
		title: "To fix token issues:",
		steps: []string{
			"1. Check if your refresh token is valid",
			"2. Regenerate tokens using the OAuth playground",
			"3. Make sure your OAuth app is not in testing mode with expired tokens",
		},
	},
	{
		probe: ProbeDriveService,
		title: "To fix service issues:",
		steps: []string{
			"1. Make sure the Google Drive API is enabled for your OAuth client's project",
			"2. Check network access to www.googleapis.com",
			"3. Run again with --log-level=debug for details",
		},
	},
}

// PrintSummary renders the results table and next steps for report.
func PrintSummary(c *Console, report *Report) {
	c.Blank()
	c.Rule()
	c.Line(IconChart, "TEST RESULTS SUMMARY")
	c.Rule()

	for _, res := range report.Results {
		if res.Passed {
			c.Line(IconOK, "PASS - %s", res.Name)
		} else {
			c.Line(IconFail, "FAIL - %s", res.Name)
		}
	}

	c.Blank()
	c.Line(IconTarget, "Overall: %d/%d tests passed", report.Passed(), report.Total())

	if report.AllPassed() {
		c.Line(IconParty, "All tests passed! Your Google Drive credentials are working correctly.")
		c.Blank()
		c.Line(IconRocket, "You can now use the Google Drive integration in your application!")
		return
	}

	c.Line(IconWarn, "Some tests failed. Please check your Google Drive configuration.")
	for _, h := range hints {
		if !report.Failed(h.probe) {
			continue
		}
		c.Blank()
		c.Line(IconHint, "%s", h.title)
		for _, step := range h.steps {
			c.Text("%s", step)
		}
		break
	}
}
