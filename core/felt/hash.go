package felt

type Hash Felt

func (h *Hash) AsFelt() *Felt {
	return (*Felt)(h)
}

func (h *Hash) String() string {
	return (*Felt)(h).String()
}

type ClassHash Hash

func (h *ClassHash) AsFelt() *Felt {
	return (*Felt)(h)
}

func (h *ClassHash) String() string {
	return (*Felt)(h).String()
}

type TransactionHash Hash

func (h *TransactionHash) AsFelt() *Felt {
	return (*Felt)(h)
}

func (h *TransactionHash) String() string {
	return (*Felt)(h).String()
}
