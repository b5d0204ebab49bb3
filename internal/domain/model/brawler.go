package model

import (
	domainerror "github.com/arqon/playproof/internal/domain/error"
)

// BrawlerID identifies an in-game character. The game data feed reports them
// in the 16000000 block, one id per brawler.
type BrawlerID int64

const brawlerIDBase = 16_000_000

// brawlerCatalogue lists the ids the task generator may assign. Challenges
// must be achievable, so only brawlers every account starts with or can
// reasonably own are included; reported battles are validated against the
// block range instead, since the catalogue lags new releases.
var brawlerCatalogue = []BrawlerID{
	16000000, // Shelly
	16000001, // Colt
	16000002, // Bull
	16000003, // Brock
	16000004, // Rico
	16000005, // Spike
	16000006, // Barley
	16000007, // Jessie
	16000008, // Nita
	16000009, // Dynamike
	16000010, // El Primo
	16000011, // Mortis
	16000012, // Crow
	16000013, // Poco
	16000014, // Bo
	16000015, // Piper
	16000016, // Pam
	16000017, // Tara
	16000018, // Darryl
	16000019, // Penny
	16000020, // Frank
	16000021, // Gene
	16000022, // Tick
	16000023, // Leon
	16000024, // Rosa
	16000025, // Carl
	16000026, // Bibi
	16000027, // 8-Bit
	16000028, // Sandy
	16000029, // Bea
	16000030, // Emz
}

// NewBrawlerID validates a reported brawler id against the feed's id block.
func NewBrawlerID(raw int64) (BrawlerID, error) {
	if raw < brawlerIDBase {
		return 0, domainerror.ErrBrawlerUnknown
	}
	return BrawlerID(raw), nil
}

// BrawlerCatalogue returns the ids available to the task generator.
func BrawlerCatalogue() []BrawlerID {
	catalogue := make([]BrawlerID, len(brawlerCatalogue))
	copy(catalogue, brawlerCatalogue)
	return catalogue
}

func (b BrawlerID) Int64() int64 { return int64(b) }
