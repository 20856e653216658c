package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

// Profile is the subset of an external provider profile the login
// bridge cares about
type Profile struct {
	ID    string
	Email string
	Name  string
}

// FetchProfile resolves the authenticated user's profile from the
// provider's API using the freshly exchanged token
func FetchProfile(ctx context.Context, provider string, cfg *oauth2.Config, token *oauth2.Token) (*Profile, error) {
	client := cfg.Client(ctx, token)

	switch provider {
	case "google":
		return fetchGoogleProfile(client)
	case "github":
		return fetchGithubProfile(client)
	default:
		return nil, fmt.Errorf("unknown oauth provider %q", provider)
	}
}

func fetchGoogleProfile(client *http.Client) (*Profile, error) {
	var raw struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	if err := getJSON(client, googleUserInfoURL, &raw); err != nil {
		return nil, err
	}

	return &Profile{ID: raw.ID, Email: raw.Email, Name: raw.Name}, nil
}

func fetchGithubProfile(client *http.Client) (*Profile, error) {
	var raw struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := getJSON(client, githubUserURL, &raw); err != nil {
		return nil, err
	}

	name := raw.Name
	if name == "" {
		name = raw.Login
	}

	// The profile email is empty when the user keeps it private, the
	// primary address has to come from the emails endpoint instead
	email := raw.Email
	if email == "" {
		var emails []struct {
			Email   string `json:"email"`
			Primary bool   `json:"primary"`
		}

		if err := getJSON(client, githubEmailsURL, &emails); err != nil {
			return nil, err
		}

		for _, e := range emails {
			if e.Primary {
				email = e.Email
				break
			}
		}
	}

	return &Profile{ID: strconv.FormatInt(raw.ID, 10), Email: email, Name: name}, nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
