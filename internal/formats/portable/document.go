package portable

// DocumentVersion is the only document layout this package reads and writes.
const DocumentVersion = 1

type document struct {
	Version  uint64            `yaml:"version"`
	Network  string            `yaml:"network"`
	Birthday uint64            `yaml:"birthday,omitempty"`
	Versions map[string]uint64 `yaml:"versions,omitempty"`
	Seed     *seedDoc          `yaml:"seed,omitempty"`
	Keys     []keyDoc          `yaml:"keys"`
}

type seedDoc struct {
	Encrypted bool   `yaml:"encrypted"`
	Entropy   string `yaml:"entropy,omitempty"`
	// Mnemonic is written alongside plaintext entropy for humans and read only when entropy is empty.
	Mnemonic string `yaml:"mnemonic,omitempty"`
	Sealed   string `yaml:"sealed,omitempty"`
	Nonce    string `yaml:"nonce,omitempty"`
}

type keyDoc struct {
	Kind         string  `yaml:"kind"`
	Label        string  `yaml:"label,omitempty"`
	Locked       bool    `yaml:"locked,omitempty"`
	HDIndex      *uint32 `yaml:"hd_index,omitempty"`
	SpendingKey  string  `yaml:"spending_key,omitempty"`
	ViewingKey   string  `yaml:"viewing_key"`
	Address      string  `yaml:"address,omitempty"`
	EncryptedKey *string `yaml:"encrypted_key,omitempty"`
	Nonce        *string `yaml:"nonce,omitempty"`
}
