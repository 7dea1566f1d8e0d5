package main

// Protocol uses single-character keys to minimize wire size.
// All x,y coordinates are rounded to 1 decimal place.
//
// Message type constants (value of "t" field):
//   Client → Server:
//     "j" = join    {"t":"j","n":"PlayerName"}
//     "i" = input   {"t":"i","a":1.57,"b":1}   (a=angle radians, b=boost 0/1)
//     "r" = respawn {"t":"r","n":"PlayerName"}
//   Server → Client:
//     "w" = welcome {"t":"w","i":"id","r":3000,"c":"#color","k":capacity,"e":[elements],"m":{emojis}}
//     "s" = state   {"t":"s","n":tick,"s":[snakes],"p":[pickups],"l":[leaderboard],"y":{self},"v":[events]}
//     "d" = death   {"t":"d","k":"KillerName","p":score,"x":discoveries}
//     "e" = error   {"t":"e","m":"message"}
//
// SnakeDTO:  {"i":"id","n":"name","s":[[x,y],...],"c":"#color","p":score,"b":1,"x":1}
// PickupDTO: {"i":"id","x":1.0,"y":2.0,"e":elementID} or {"i":"id","x":1.0,"y":2.0,"v":1}
// LeaderboardEntry: {"i":"id","n":"name","p":score,"d":discoveries}
//
// Frames are JSON text by default; a client connecting with ?codec=msgpack receives the same
// structures as msgpack binary frames.

// Message type identifiers, single-char for a compact protocol
const (
	MsgJoin    = "j"
	MsgInput   = "i"
	MsgRespawn = "r"
	MsgWelcome = "w"
	MsgState   = "s"
	MsgDeath   = "d"
	MsgError   = "e"
)

// ClientMessage is the base incoming message from the browser.
//   {"t":"j","n":"name"}          join / respawn
//   {"t":"i","a":1.57,"b":1}      input (a=angle, b=boost)
type ClientMessage struct {
	Type  string  `json:"t"`
	Name  string  `json:"n,omitempty"`
	Angle float64 `json:"a,omitempty"`
	Boost int     `json:"b,omitempty"` // 0 or 1 (client sends int, not bool)
}

// WelcomeMsg is sent immediately on connect. It carries the element catalog so the client can
// label bank slots and pickups without a separate request.
type WelcomeMsg struct {
	Type         string         `json:"t"`
	ID           string         `json:"i"`
	WorldRadius  float64        `json:"r"`
	Color        string         `json:"c"`
	BankCapacity int            `json:"k"`
	Elements     []Element      `json:"e"`
	Emojis       map[int]string `json:"m"`
}

// SnakeDTO is the compact snake for per-tick state updates.
// Segments are encoded as flat [x,y] float64 pairs to save bytes vs {"x":..,"y":..} objects.
type SnakeDTO struct {
	ID       string       `json:"i"`
	Name     string       `json:"n"`
	Segments [][2]float64 `json:"s"`
	Color    string       `json:"c"`
	Score    int          `json:"p"`
	Boosting int          `json:"b,omitempty"` // 1 if boosting, omitted if not
	Dying    int          `json:"x,omitempty"` // 1 while the death animation plays
}

// PickupDTO is an element pickup or a void orb.
type PickupDTO struct {
	ID      string    `json:"i"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Element ElementID `json:"e,omitempty"`
	Void    int       `json:"v,omitempty"` // 1 for void orbs
}

// SelfDTO is the viewer's own bank and HUD counters. Other snakes' banks are never sent.
type SelfDTO struct {
	ID          string      `json:"i"`
	Bank        []ElementID `json:"k"`
	Capacity    int         `json:"c"`
	Score       int         `json:"p"`
	Streak      int         `json:"s"`
	Stamina     float64     `json:"m"`
	Discoveries int         `json:"d"`
	Alive       int         `json:"a"`
}

// LeaderboardEntry is a single leaderboard row.
type LeaderboardEntry struct {
	ID          string `json:"i"`
	Name        string `json:"n"`
	Score       int    `json:"p"`
	Discoveries int    `json:"d"`
}

// StateMsg is the per-tick state update sent to the session's client.
type StateMsg struct {
	Type        string             `json:"t"`
	Tick        uint64             `json:"n"`
	Snakes      []SnakeDTO         `json:"s"`
	Pickups     []PickupDTO        `json:"p"`
	Leaderboard []LeaderboardEntry `json:"l"`
	Self        *SelfDTO           `json:"y,omitempty"`
	Events      []Event            `json:"v,omitempty"`
}

// DeathMsg is sent to a player when their snake dies.
// k = killer name (or "Boundary"), p = final score, x = discoveries kept for the next life
type DeathMsg struct {
	Type        string `json:"t"`
	Killer      string `json:"k"`
	Score       int    `json:"p"`
	Discoveries int    `json:"x"`
}

// ErrorMsg is sent before the server closes a connection it refuses.
type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}
