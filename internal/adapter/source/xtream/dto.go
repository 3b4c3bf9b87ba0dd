package xtream

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Xtream panels disagree on whether numbers are sent as numbers or strings.
// The Flex types accept either and never fail decoding.

// FlexInt decodes 12, "12", 12.0 or "" (as 0)
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt(parseFlexNumber(data))
	return nil
}

func (f FlexInt) Int() int { return int(f) }

// FlexFloat decodes 7.5, "7.5" or "" (as 0)
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat(parseFlexNumber(data))
	return nil
}

func (f FlexFloat) Float() float64 { return float64(f) }

// FlexString decodes "abc", 12 (as "12") or null (as "")
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

func (f FlexString) String() string { return string(f) }

// NullableRating keeps null, "" and non-numeric ratings apart from a real 0
type NullableRating struct {
	Value float64
	Valid bool
}

func (r *NullableRating) UnmarshalJSON(data []byte) error {
	*r = NullableRating{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = NullableRating{Value: n, Valid: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*r = NullableRating{Value: v, Valid: true}
		}
	}
	return nil
}

// Ptr returns nil for a null rating
func (r NullableRating) Ptr() *float64 {
	if !r.Valid {
		return nil
	}
	v := r.Value
	return &v
}

func parseFlexNumber(data []byte) float64 {
	data = bytes.TrimSpace(data)
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return 0
}

// AuthInfo is the player_api.php response without an action
type AuthInfo struct {
	UserInfo   *UserInfo  `json:"user_info"`
	ServerInfo ServerInfo `json:"server_info"`
}

// UserInfo describes the account
type UserInfo struct {
	Username             string     `json:"username"`
	Password             string     `json:"password" masq:"secret"`
	Message              string     `json:"message"`
	Auth                 *FlexInt   `json:"auth"`
	Status               string     `json:"status"`
	ExpDate              FlexString `json:"exp_date"`
	IsTrial              FlexString `json:"is_trial"`
	ActiveConnections    FlexInt    `json:"active_cons"`
	CreatedAt            FlexString `json:"created_at"`
	MaxConnections       FlexInt    `json:"max_connections"`
	AllowedOutputFormats []string   `json:"allowed_output_formats"`
}

// Rejected reports an explicit auth=0. Panels that omit auth accept the login.
func (u UserInfo) Rejected() bool {
	return u.Auth != nil && *u.Auth == 0
}

// ServerInfo describes the panel
type ServerInfo struct {
	URL            string     `json:"url"`
	Port           FlexString `json:"port"`
	HTTPSPort      FlexString `json:"https_port"`
	ServerProtocol string     `json:"server_protocol"`
	RTMPPort       FlexString `json:"rtmp_port"`
	Timezone       string     `json:"timezone"`
	TimestampNow   FlexInt    `json:"timestamp_now"`
	TimeNow        string     `json:"time_now"`
}

// CategoryDTO is an element of the get_*_categories responses
type CategoryDTO struct {
	CategoryID   FlexString `json:"category_id"`
	CategoryName FlexString `json:"category_name"`
	ParentID     FlexInt    `json:"parent_id"`
}

// StreamDTO covers live streams, VOD streams and series entries.
// Fields that do not apply to an action are simply left empty.
type StreamDTO struct {
	Num                FlexInt        `json:"num"`
	Name               FlexString     `json:"name"`
	Title              FlexString     `json:"title"`
	StreamType         FlexString     `json:"stream_type"`
	StreamID           FlexInt        `json:"stream_id"`
	SeriesID           FlexInt        `json:"series_id"`
	StreamIcon         FlexString     `json:"stream_icon"`
	Cover              FlexString     `json:"cover"`
	CategoryID         FlexString     `json:"category_id"`
	ContainerExtension FlexString     `json:"container_extension"`
	Rating             NullableRating `json:"rating"`
	Rating5Based       FlexFloat      `json:"rating_5based"`
	Plot               FlexString     `json:"plot"`
	Cast               FlexString     `json:"cast"`
	Director           FlexString     `json:"director"`
	Genre              FlexString     `json:"genre"`
	ReleaseDate        FlexString     `json:"releaseDate"`
	EPGChannelID       FlexString     `json:"epg_channel_id"`
	Added              FlexString     `json:"added"`
	TVArchive          FlexInt        `json:"tv_archive"`
	DirectSource       FlexString     `json:"direct_source"`
}

// SeriesInfoDTO is the get_series_info response
type SeriesInfoDTO struct {
	Info     SeriesDetailsDTO `json:"info"`
	Episodes EpisodeMap       `json:"episodes"`
}

// SeriesDetailsDTO is the "info" block of get_series_info
type SeriesDetailsDTO struct {
	Name  FlexString `json:"name"`
	Cover FlexString `json:"cover"`
	Plot  FlexString `json:"plot"`
	Genre FlexString `json:"genre"`
}

// UnmarshalJSON accepts an empty array, null or "" as an empty block
func (d *SeriesDetailsDTO) UnmarshalJSON(data []byte) error {
	type plain SeriesDetailsDTO
	var v plain
	if err := decodeInfo(data, &v); err != nil {
		return err
	}
	*d = SeriesDetailsDTO(v)
	return nil
}

// EpisodeDTO is a single episode of get_series_info
type EpisodeDTO struct {
	ID                 FlexString `json:"id"`
	EpisodeNum         FlexInt    `json:"episode_num"`
	Title              FlexString `json:"title"`
	ContainerExtension FlexString `json:"container_extension"`
	Season             FlexInt    `json:"season"`
	Info               EpisodeInfoDTO `json:"info"`
}

// EpisodeInfoDTO is the "info" block of an episode
type EpisodeInfoDTO struct {
	Plot     FlexString `json:"plot"`
	Duration FlexString `json:"duration"`
	Rating   FlexFloat  `json:"rating"`
}

// UnmarshalJSON accepts an empty array, null or "" as an empty block
func (i *EpisodeInfoDTO) UnmarshalJSON(data []byte) error {
	type plain EpisodeInfoDTO
	var v plain
	if err := decodeInfo(data, &v); err != nil {
		return err
	}
	*i = EpisodeInfoDTO(v)
	return nil
}

// decodeInfo decodes an info object. Panels send [] or "" when there is
// nothing to say; anything that is not an object leaves v empty.
func decodeInfo(data []byte, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	return json.Unmarshal(data, v)
}

// EpisodeMap holds episodes keyed by season number.
// Most panels send an object keyed by season; some send an array of season arrays.
type EpisodeMap map[string][]EpisodeDTO

func (m *EpisodeMap) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = EpisodeMap{}
		return nil
	}

	var keyed map[string][]EpisodeDTO
	if err := json.Unmarshal(data, &keyed); err == nil {
		*m = keyed
		return nil
	}

	var seasons [][]EpisodeDTO
	if err := json.Unmarshal(data, &seasons); err != nil {
		return err
	}
	out := make(EpisodeMap, len(seasons))
	for i, eps := range seasons {
		season := strconv.Itoa(i + 1)
		if len(eps) > 0 && eps[0].Season > 0 {
			season = strconv.Itoa(eps[0].Season.Int())
		}
		out[season] = append(out[season], eps...)
	}
	*m = out
	return nil
}

// Seasons returns the season keys in numeric order
func (m EpisodeMap) Seasons() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}
