package torbox

// User is the account record.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Plan      int    `json:"plan"`
	Customer  string `json:"customer"`
	ExpiresAt string `json:"expires_at"`
}

// File is one file inside a torrent.
type File struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Size      int64  `json:"size"`
	Mimetype  string `json:"mimetype,omitempty"`
}

// Torrent is a torrent in the user's cloud.
type Torrent struct {
	ID               int     `json:"id"`
	Hash             string  `json:"hash"`
	Name             string  `json:"name"`
	Size             int64   `json:"size"`
	Progress         float64 `json:"progress"`
	Status           string  `json:"status"`
	Seeders          int     `json:"seeders"`
	DownloadPresent  bool    `json:"download_present"`
	DownloadFinished bool    `json:"download_finished"`
	Files            []File  `json:"files"`
}

// CreatedTorrent is the record returned by torrent creation.
type CreatedTorrent struct {
	TorrentID int    `json:"torrent_id"`
	Hash      string `json:"hash"`
}

// CachedTorrent is one instant-availability entry.
type CachedTorrent struct {
	Hash  string `json:"hash"`
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	Files []File `json:"files,omitempty"`
}
