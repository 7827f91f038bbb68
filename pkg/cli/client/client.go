/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package client provides interfaces for interacting with the Recall server
// and the data structures for responses
package client

import (
	"bytes"
	stdcontext "context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/deck"
	"golang.org/x/time/rate"
)

// ErrInvalidLogin is an error for invalid credentials for login
var ErrInvalidLogin = errors.New("wrong credentials")

// ErrContentTypeMismatch is an error for a response in an unexpected format
var ErrContentTypeMismatch = errors.New("content type mismatch")

// ErrNotLoggedIn is an error for a request that needs a session when there is none
var ErrNotLoggedIn = errors.New("not logged in")

// HTTPError represents an HTTP error response from the server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// StatusCode returns the status code of the server response that caused the
// error, or 0 if the error did not come from a response
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	return 0
}

var contentTypeApplicationJSON = "application/json"
var contentTypeNone = ""

// requestOptions contains options for requests
type requestOptions struct {
	HTTPClient *http.Client
	// ExpectedContentType is the Content-Type that the client is expecting from the server
	ExpectedContentType *string
	// Context, if set, bounds the request
	Context stdcontext.Context
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 20
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 40
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	return &http.Client{
		Transport: &rateLimitedTransport{
			transport: http.DefaultTransport,
			limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
		},
		// generation and chat wait on the language model
		Timeout: 3 * time.Minute,
	}
}

func getHTTPClient(ctx context.RecallCtx, options *requestOptions) *http.Client {
	if options != nil && options.HTTPClient != nil {
		return options.HTTPClient
	}
	if ctx.HTTPClient != nil {
		return ctx.HTTPClient
	}

	return &http.Client{}
}

func getExpectedContentType(options *requestOptions) string {
	if options != nil && options.ExpectedContentType != nil {
		return *options.ExpectedContentType
	}

	return contentTypeApplicationJSON
}

func getReqContext(options *requestOptions) stdcontext.Context {
	if options != nil && options.Context != nil {
		return options.Context
	}

	return stdcontext.Background()
}

func getReq(ctx context.RecallCtx, path, method string, body []byte, options *requestOptions) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", strings.TrimRight(ctx.APIEndpoint, "/"), path)
	req, err := http.NewRequestWithContext(getReqContext(options), method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("CLI-Version", ctx.Version)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeApplicationJSON)
	}

	if ctx.SessionKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", ctx.SessionKey))
	}

	return req, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// checkRespErr returns an HTTPError if the given http response indicates an
// error. The message of a JSON error body is unwrapped.
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	message := strings.TrimRight(string(body), "\n")

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    message,
	}
}

func checkContentType(res *http.Response, options *requestOptions) error {
	expected := getExpectedContentType(options)

	got := res.Header.Get("Content-Type")
	if !strings.HasPrefix(got, expected) || (expected == "" && got != "") {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Did you configure your endpoint correctly?", got, expected)
	}

	return nil
}

// doReq does a http request to the given path in the api endpoint. The
// caller must close the body of the returned response.
func doReq(ctx context.RecallCtx, method, path string, body []byte, options *requestOptions) (*http.Response, error) {
	req, err := getReq(ctx, path, method, body, options)
	if err != nil {
		return nil, errors.Wrap(err, "getting request")
	}

	log.Debug("HTTP %s %s\n", method, path)

	hc := getHTTPClient(ctx, options)
	res, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}

	log.Debug("HTTP %s\n", res.Status)

	if err = checkRespErr(res); err != nil {
		res.Body.Close()
		return nil, errors.Wrap(err, "server responded with an error")
	}

	if err = checkContentType(res, options); err != nil {
		res.Body.Close()
		return nil, errors.Wrap(err, "unexpected Content-Type")
	}

	return res, nil
}

// doAuthorizedReq does a http request to the given path in the api endpoint as a user,
// with the appropriate headers. The given path should include the preceding slash.
func doAuthorizedReq(ctx context.RecallCtx, method, path string, body []byte, options *requestOptions) (*http.Response, error) {
	if ctx.SessionKey == "" {
		return nil, ErrNotLoggedIn
	}

	return doReq(ctx, method, path, body, options)
}

// callJSON sends the payload, if any, as JSON and decodes the response into
// dest, if given
func callJSON(ctx context.RecallCtx, method, path string, payload, dest interface{}, options *requestOptions) error {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "marshaling payload")
		}
		body = b
	}

	res, err := doAuthorizedReq(ctx, method, path, body, options)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decoding payload")
	}

	return nil
}

// SigninPayload is a payload for /v1/signin
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResponse is a response from /v1/signin endpoint
type SigninResponse struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

// Signin requests a session key
func Signin(ctx context.RecallCtx, email, password string) (SigninResponse, error) {
	b, err := json.Marshal(SigninPayload{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return SigninResponse{}, errors.Wrap(err, "marshaling payload")
	}

	res, err := doReq(ctx, http.MethodPost, "/v1/signin", b, nil)
	if err != nil {
		if StatusCode(err) == http.StatusUnauthorized {
			return SigninResponse{}, ErrInvalidLogin
		}

		return SigninResponse{}, errors.Wrap(err, "making http request")
	}
	defer res.Body.Close()

	var resp SigninResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return SigninResponse{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// Signout deletes the session of the context on the server side
func Signout(ctx context.RecallCtx) error {
	opts := requestOptions{
		ExpectedContentType: &contentTypeNone,
	}

	res, err := doAuthorizedReq(ctx, http.MethodPost, "/v1/signout", nil, &opts)
	if err != nil {
		return errors.Wrap(err, "making http request")
	}
	res.Body.Close()

	return nil
}

// User is the signed in user
type User struct {
	UUID       string `json:"uuid"`
	Email      string `json:"email"`
	TokensUsed int    `json:"tokens_used"`
	TokenLimit int    `json:"token_limit"`
}

// QuotaExhausted reports whether the user used up the monthly token limit
func (u User) QuotaExhausted() bool {
	return u.TokensUsed >= u.TokenLimit
}

// GetMe gets the signed in user
func GetMe(ctx context.RecallCtx) (User, error) {
	var ret User
	if err := callJSON(ctx, http.MethodGet, "/v1/me", nil, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "getting the user")
	}

	return ret, nil
}

// DeckOwner is the owner of a deck
type DeckOwner struct {
	UUID   string `json:"uuid"`
	Handle string `json:"handle"`
}

// Deck is a deck in a listing
type Deck struct {
	Name      string    `json:"name"`
	CardCount int       `json:"card_count"`
	Owner     DeckOwner `json:"owner"`
}

// GetDecks gets the decks of the user
func GetDecks(ctx context.RecallCtx) ([]Deck, error) {
	var ret []Deck
	if err := callJSON(ctx, http.MethodGet, "/v1/decks", nil, &ret, nil); err != nil {
		return nil, errors.Wrap(err, "getting decks")
	}

	return ret, nil
}

// GetCommunityDecks gets the decks of other users whose names contain the query
func GetCommunityDecks(ctx context.RecallCtx, query string) ([]Deck, error) {
	path := "/v1/community/decks"
	if query != "" {
		path = fmt.Sprintf("%s?q=%s", path, url.QueryEscape(query))
	}

	var ret []Deck
	if err := callJSON(ctx, http.MethodGet, path, nil, &ret, nil); err != nil {
		return nil, errors.Wrap(err, "getting community decks")
	}

	return ret, nil
}

func deckPath(name string) string {
	return fmt.Sprintf("/v1/decks/%s", url.PathEscape(name))
}

// CreateDeckResp is the response from create deck endpoint
type CreateDeckResp struct {
	Name string `json:"name"`
}

// CreateDeck creates an empty deck
func CreateDeck(ctx context.RecallCtx, name string) (CreateDeckResp, error) {
	payload := map[string]string{"name": name}

	var ret CreateDeckResp
	if err := callJSON(ctx, http.MethodPost, "/v1/decks", payload, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "creating a deck")
	}

	return ret, nil
}

// DeleteDeckResp is the response from delete deck endpoint
type DeleteDeckResp struct {
	Deleted int64 `json:"deleted"`
}

// DeleteDeck deletes a deck. The confirmation must repeat the deck name.
func DeleteDeck(ctx context.RecallCtx, name, confirmation string) (DeleteDeckResp, error) {
	payload := map[string]string{"confirmation": confirmation}

	var ret DeleteDeckResp
	if err := callJSON(ctx, http.MethodDelete, deckPath(name), payload, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "deleting a deck")
	}

	return ret, nil
}

// GetDeckCards gets the cards of a deck of the user, the placeholder included
func GetDeckCards(ctx context.RecallCtx, name string) ([]deck.Card, error) {
	return getDeckCards(ctx, name, nil)
}

func getDeckCards(ctx context.RecallCtx, name string, options *requestOptions) ([]deck.Card, error) {
	var ret []deck.Card
	if err := callJSON(ctx, http.MethodGet, deckPath(name)+"/cards", nil, &ret, options); err != nil {
		return nil, errors.Wrap(err, "getting cards")
	}

	return ret, nil
}

// CreateCardPayload is a payload for creating a card
type CreateCardPayload struct {
	Deck     string `json:"deck"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CreateCard adds a card to a deck
func CreateCard(ctx context.RecallCtx, deckName, question, answer string) (deck.Card, error) {
	payload := CreateCardPayload{
		Deck:     deckName,
		Question: question,
		Answer:   answer,
	}

	var ret deck.Card
	if err := callJSON(ctx, http.MethodPost, "/v1/cards", payload, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "creating a card")
	}

	return ret, nil
}

// UpdateCardPayload is a payload for updating a card. Nil fields are left
// unchanged.
type UpdateCardPayload struct {
	Question *string `json:"question,omitempty"`
	Answer   *string `json:"answer,omitempty"`
	Deck     *string `json:"deck,omitempty"`
}

// UpdateCard edits a card or moves it to another deck
func UpdateCard(ctx context.RecallCtx, uuid string, payload UpdateCardPayload) (deck.Card, error) {
	var ret deck.Card
	if err := callJSON(ctx, http.MethodPatch, "/v1/cards/"+url.PathEscape(uuid), payload, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "updating a card")
	}

	return ret, nil
}

// DeleteCard deletes a card and returns it
func DeleteCard(ctx context.RecallCtx, uuid string) (deck.Card, error) {
	var ret deck.Card
	if err := callJSON(ctx, http.MethodDelete, "/v1/cards/"+url.PathEscape(uuid), nil, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "deleting a card")
	}

	return ret, nil
}

type progressQueryPayload struct {
	CardUUIDs []string `json:"card_uuids"`
}

type progressQueryResp struct {
	Progress map[string]deck.Status `json:"progress"`
}

// GetProgress gets the recorded statuses of the given cards. Cards without
// a status are left out.
func GetProgress(ctx context.RecallCtx, cardUUIDs []string) (map[string]deck.Status, error) {
	return getProgress(ctx, cardUUIDs, nil)
}

func getProgress(ctx context.RecallCtx, cardUUIDs []string, options *requestOptions) (map[string]deck.Status, error) {
	var resp progressQueryResp
	if err := callJSON(ctx, http.MethodPost, "/v1/progress/query", progressQueryPayload{CardUUIDs: cardUUIDs}, &resp, options); err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}

	if resp.Progress == nil {
		return map[string]deck.Status{}, nil
	}

	return resp.Progress, nil
}

// ProgressResp is the response from the progress upsert endpoint
type ProgressResp struct {
	CardUUID string      `json:"card_uuid"`
	Status   deck.Status `json:"status"`
	LastSeen time.Time   `json:"last_seen"`
}

// SetProgress records the status of a card
func SetProgress(ctx context.RecallCtx, cardUUID string, status deck.Status) (ProgressResp, error) {
	return setProgress(ctx, cardUUID, status, nil)
}

func setProgress(ctx context.RecallCtx, cardUUID string, status deck.Status, options *requestOptions) (ProgressResp, error) {
	payload := map[string]deck.Status{"status": status}

	var ret ProgressResp
	if err := callJSON(ctx, http.MethodPut, "/v1/progress/"+url.PathEscape(cardUUID), payload, &ret, options); err != nil {
		return ret, errors.Wrap(err, "setting progress")
	}

	return ret, nil
}

type masteredResp struct {
	Count int64 `json:"count"`
}

// CountMastered counts the mastered cards among the given ones
func CountMastered(ctx context.RecallCtx, cardUUIDs []string) (int64, error) {
	var resp masteredResp
	if err := callJSON(ctx, http.MethodPost, "/v1/progress/mastered", progressQueryPayload{CardUUIDs: cardUUIDs}, &resp, nil); err != nil {
		return 0, errors.Wrap(err, "counting mastered cards")
	}

	return resp.Count, nil
}

// TransferResp is the response from the transfer endpoint
type TransferResp struct {
	Count    int    `json:"count"`
	DeckName string `json:"deck_name"`
	Message  string `json:"message"`
}

// Transfer copies a deck of another user into the decks of the user
func Transfer(ctx context.RecallCtx, ownerUUID, deckName string) (TransferResp, error) {
	payload := map[string]string{
		"owner_uuid": ownerUUID,
		"deck":       deckName,
	}

	var ret TransferResp
	if err := callJSON(ctx, http.MethodPost, "/v1/transfers", payload, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "transferring a deck")
	}

	return ret, nil
}

// CardSlot is a question and answer pair of a generation. Either side may
// be empty in a request.
type CardSlot struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Usage is the number of tokens a request to the language model consumed
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GeneratePayload is a payload for the generate endpoint
type GeneratePayload struct {
	Topic        string     `json:"topic"`
	Context      string     `json:"context,omitempty"`
	Links        []string   `json:"links,omitempty"`
	SubTopics    []string   `json:"sub_topics,omitempty"`
	Tone         string     `json:"tone,omitempty"`
	Conciseness  string     `json:"conciseness,omitempty"`
	Technicality string     `json:"technicality,omitempty"`
	Formatting   string     `json:"formatting,omitempty"`
	NumCards     int        `json:"num_cards"`
	Cards        []CardSlot `json:"cards,omitempty"`
}

// GenerateResp is the response from the generate endpoint
type GenerateResp struct {
	Cards []CardSlot `json:"cards"`
	Usage Usage      `json:"usage"`
}

// Generate drafts cards with the language model
func Generate(ctx context.RecallCtx, payload GeneratePayload) (GenerateResp, error) {
	var ret GenerateResp
	if err := callJSON(ctx, http.MethodPost, "/v1/generate", payload, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "generating cards")
	}

	return ret, nil
}

// SaveResp is the response from the endpoint saving generated cards
type SaveResp struct {
	Count int         `json:"count"`
	Cards []deck.Card `json:"cards"`
}

// SaveGenerated stores generated cards in a deck
func SaveGenerated(ctx context.RecallCtx, deckName string, cards []CardSlot) (SaveResp, error) {
	payload := struct {
		Deck  string     `json:"deck"`
		Cards []CardSlot `json:"cards"`
	}{deckName, cards}

	var ret SaveResp
	if err := callJSON(ctx, http.MethodPost, "/v1/generate/save", payload, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "saving generated cards")
	}

	return ret, nil
}

// Message is a message of a tutor chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResp is the reply of the tutor
type ChatResp struct {
	Reply string `json:"reply"`
	Usage Usage  `json:"usage"`
}

// Chat asks the tutor about a deck. The last message must be the question
// of the user.
func Chat(ctx context.RecallCtx, deckName string, messages []Message) (ChatResp, error) {
	payload := struct {
		Deck     string    `json:"deck"`
		Messages []Message `json:"messages"`
	}{deckName, messages}

	var ret ChatResp
	if err := callJSON(ctx, http.MethodPost, "/v1/chat", payload, &ret, nil); err != nil {
		return ret, errors.Wrap(err, "chatting with the tutor")
	}

	return ret, nil
}
