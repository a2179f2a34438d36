package booking

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

var (
	ErrNegativePrice      = errors.New("price cannot be negative")
	ErrNoteTooLong        = errors.New("notes are too long (max 2000 characters)")
	ErrInvalidMeetingLink = errors.New("meeting link must be an absolute http(s) URL")
)

const MaxNoteLength = 2000

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Amount() float64 {
	return float64(m.cents) / 100.0
}

type Note struct {
	value string
}

func NewNote(value string) (Note, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > MaxNoteLength {
		return Note{}, ErrNoteTooLong
	}
	return Note{value: value}, nil
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}

type MeetingLink struct {
	value string
}

func NewMeetingLink(raw string) (MeetingLink, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return MeetingLink{}, ErrInvalidMeetingLink
	}
	return MeetingLink{value: u.String()}, nil
}

func (l MeetingLink) String() string {
	return l.value
}

func (l MeetingLink) IsEmpty() bool {
	return l.value == ""
}
