// Package httpclient posts multipart forms with a bearer token and reports
// failures as *Error values that keep the status code and response body.
// Every call is a single attempt.
//
//	c := httpclient.New(httpclient.Config{Timeout: 2 * time.Minute, BearerToken: key})
//	form := httpclient.NewForm().
//	    File("file", "rec.webm", "audio/webm", audio).
//	    Set("model", "whisper-1")
//	resp, err := c.PostForm(ctx, "https://api.openai.com/v1/audio/transcriptions", form)
package httpclient
