package session

import (
	"context"

	"gomall/client/gateway"
	"gomall/internal/models"
)

// AddressInput is the payload for add/update calls.
type AddressInput struct {
	Receiver  string `json:"receiver"`
	Phone     string `json:"phone"`
	Province  string `json:"province"`
	City      string `json:"city"`
	District  string `json:"district"`
	Detail    string `json:"detail"`
	IsDefault bool   `json:"isDefault"`
}

func (s *Store) Addresses() []models.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Address, len(s.addresses))
	copy(out, s.addresses)
	return out
}

func (s *Store) DefaultAddress() (models.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defaultAddress == nil {
		return models.Address{}, false
	}
	return *s.defaultAddress, true
}

func (s *Store) AddressLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addressLoading
}

func (s *Store) ListAddresses(ctx context.Context) gateway.Result {
	s.setAddressLoading(true)
	defer s.setAddressLoading(false)

	env, err := s.gw.Get(ctx, "/user/address/list", nil)
	if err != nil {
		s.log.Error().Err(err).Msg("address list failed")
		return gateway.Fail("could not load addresses")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var addresses []models.Address
	if err := gateway.Decode(env.Data, &addresses); err != nil {
		s.log.Error().Err(err).Msg("address list payload malformed")
		return gateway.Fail("could not load addresses")
	}

	s.applyAddresses(addresses)
	return gateway.OK()
}

func (s *Store) AddAddress(ctx context.Context, input AddressInput) gateway.Result {
	env, err := s.gw.Post(ctx, "/user/address/add", input)
	if err != nil {
		s.log.Error().Err(err).Msg("address add failed")
		return gateway.Fail("could not add address")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var addr models.Address
	if err := gateway.Decode(env.Data, &addr); err != nil {
		s.log.Error().Err(err).Msg("address add payload malformed")
		return gateway.Fail("could not add address")
	}

	s.applyAddAddress(addr)
	return gateway.OK()
}

func (s *Store) UpdateAddress(ctx context.Context, id string, input AddressInput) gateway.Result {
	env, err := s.gw.Put(ctx, "/user/address/update/"+id, input)
	if err != nil {
		s.log.Error().Err(err).Msg("address update failed")
		return gateway.Fail("could not update address")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var addr models.Address
	if err := gateway.Decode(env.Data, &addr); err != nil {
		s.log.Error().Err(err).Msg("address update payload malformed")
		return gateway.Fail("could not update address")
	}

	s.applyUpdateAddress(addr)
	return gateway.OK()
}

func (s *Store) DeleteAddress(ctx context.Context, id string) gateway.Result {
	env, err := s.gw.Delete(ctx, "/user/address/delete/"+id)
	if err != nil {
		s.log.Error().Err(err).Msg("address delete failed")
		return gateway.Fail("could not delete address")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applyDeleteAddress(id)
	return gateway.OK()
}

func (s *Store) SetDefaultAddress(ctx context.Context, id string) gateway.Result {
	env, err := s.gw.Put(ctx, "/user/address/setDefault/"+id, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("set default address failed")
		return gateway.Fail("could not set default address")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applySetDefaultAddress(id)
	return gateway.OK()
}

func (s *Store) setAddressLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addressLoading = loading
}

func (s *Store) applyAddresses(addresses []models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = addresses
	s.defaultAddress = nil
	for i := range s.addresses {
		if s.addresses[i].IsDefault {
			def := s.addresses[i]
			s.defaultAddress = &def
			break
		}
	}
}

// applyAddAddress appends the new address; when it is the default, every
// sibling is demoted in the same mutation so at most one default survives.
func (s *Store) applyAddAddress(addr models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = append(s.addresses, addr)
	if addr.IsDefault {
		for i := range s.addresses {
			s.addresses[i].IsDefault = s.addresses[i].ID == addr.ID
		}
		def := addr
		s.defaultAddress = &def
	}
}

func (s *Store) applyUpdateAddress(addr models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.addresses {
		if s.addresses[i].ID != addr.ID {
			continue
		}
		s.addresses[i] = addr
		if addr.IsDefault {
			for j := range s.addresses {
				s.addresses[j].IsDefault = s.addresses[j].ID == addr.ID
			}
			def := addr
			s.defaultAddress = &def
		} else if s.defaultAddress != nil && s.defaultAddress.ID == addr.ID {
			s.defaultAddress = nil
		}
		return
	}
}

// applyDeleteAddress removes the entry. Deleting the current default clears
// the default reference; no sibling is promoted automatically.
func (s *Store) applyDeleteAddress(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.addresses {
		if s.addresses[i].ID != id {
			continue
		}
		if s.defaultAddress != nil && s.defaultAddress.ID == id {
			s.defaultAddress = nil
		}
		s.addresses = append(s.addresses[:i], s.addresses[i+1:]...)
		return
	}
}

func (s *Store) applySetDefaultAddress(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultAddress = nil
	for i := range s.addresses {
		s.addresses[i].IsDefault = s.addresses[i].ID == id
		if s.addresses[i].IsDefault {
			def := s.addresses[i]
			s.defaultAddress = &def
		}
	}
}
