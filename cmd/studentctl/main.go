// studentctl is a small operator CLI for the StudentDesk API. It mirrors
// the web form's behavior: field values are validated locally with the
// same rule set before anything is sent to the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/campushq/studentdesk-backend/internal/model"
	"github.com/campushq/studentdesk-backend/internal/uploader"
	"github.com/campushq/studentdesk-backend/internal/validation"
)

const defaultAPI = "http://localhost:8080/api"

func main() {
	apiBase := flag.String("api", defaultAPI, "Base URL of the StudentDesk API")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var err error
	switch args[0] {
	case "create":
		err = runCreate(ctx, *apiBase, args[1:])
	case "list":
		err = runList(ctx, *apiBase)
	case "get":
		err = runGet(ctx, *apiBase, args[1:])
	case "delete":
		err = runDelete(ctx, *apiBase, args[1:])
	case "upload-photo":
		err = runUploadPhoto(ctx, *apiBase, args[1:])
	default:
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: studentctl [-api URL] <command>")
	fmt.Println("Commands:")
	fmt.Println("  create -first_name ... -last_name ... (all student fields)")
	fmt.Println("  list")
	fmt.Println("  get <email>")
	fmt.Println("  delete <email>")
	fmt.Println("  upload-photo <email> <file>")
}

func runCreate(ctx context.Context, apiBase string, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	fields := map[string]*string{}
	for _, f := range []string{
		"first_name", "last_name", "phone", "email", "street_address",
		"city", "province_state", "country", "postal_code", "program", "year",
	} {
		fields[f] = fs.String(f, "", f)
	}
	photo := fs.String("profile_picture_url", "", "optional photo URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Same client-side rules the form applies, so obviously bad input
	// never reaches the server.
	values := make(map[string]string, len(fields))
	for name, v := range fields {
		values[name] = strings.TrimSpace(*v)
	}
	if failures := validation.ValidateAll(values); len(failures) > 0 {
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(os.Stderr, "%s: %s\n", name, failures[name])
		}
		return fmt.Errorf("%d field(s) failed validation", len(failures))
	}
	values["year"] = strings.ToUpper(values["year"])
	if *photo != "" {
		values["profile_picture_url"] = *photo
	}

	var body strings.Builder
	w := multipart.NewWriter(&body)
	for name, v := range values {
		if err := w.WriteField(name, v); err != nil {
			return err
		}
	}
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"/students", strings.NewReader(body.String()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	if err := doExpectOK(req); err != nil {
		return err
	}
	fmt.Printf("Created student %s\n", values["email"])
	return nil
}

func runList(ctx context.Context, apiBase string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/students", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(resp)
	}

	var students []model.Student
	if err := json.NewDecoder(resp.Body).Decode(&students); err != nil {
		return err
	}
	if len(students) == 0 {
		fmt.Println("No students.")
		return nil
	}
	for _, s := range students {
		fmt.Printf("%-40s %s %s (%s, %s)\n", s.Email, s.FirstName, s.LastName, s.Program, s.Year)
	}
	return nil
}

func runGet(ctx context.Context, apiBase string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: get <email>")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/students/"+url.PathEscape(args[0]), nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(resp)
	}

	var s model.Student
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return err
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runDelete(ctx context.Context, apiBase string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <email>")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, apiBase+"/students/"+url.PathEscape(args[0]), nil)
	if err != nil {
		return err
	}
	if err := doExpectOK(req); err != nil {
		return err
	}
	fmt.Printf("Deleted student %s\n", args[0])
	return nil
}

// runUploadPhoto runs the two-phase upload and then points the student's
// profile_picture_url at the stored blob.
func runUploadPhoto(ctx context.Context, apiBase string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: upload-photo <email> <file>")
	}
	email, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := contentTypeForFile(path)
	publicURL, err := uploader.New(apiBase).Upload(ctx, filepath.Base(path), contentType, f)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded to %s\n", publicURL)

	payload, err := json.Marshal(map[string]string{"profile_picture_url": publicURL})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, apiBase+"/students/"+url.PathEscape(email), strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := doExpectOK(req); err != nil {
		return err
	}
	fmt.Printf("Updated photo for %s\n", email)
	return nil
}

func doExpectOK(req *http.Request) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func httpError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
}

func contentTypeForFile(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}
