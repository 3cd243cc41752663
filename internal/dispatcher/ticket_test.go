package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vfsbridge/vfsbridge/pkg/errno"
)

func TestTicketSetThenWaitReturnsOutcome(t *testing.T) {
	tk := newTicket[string]()
	tk.Set(0, "ok")

	e, v := tk.Wait()
	assert.Equal(t, 0, e)
	assert.Equal(t, "ok", v)
}

func TestTicketDoubleSetPanics(t *testing.T) {
	tk := newTicket[int]()
	tk.Set(0, 1)

	assert.Panics(t, func() { tk.Set(0, 2) })
}

func TestTicketCancelForcesEIOAndIsIdempotent(t *testing.T) {
	tk := newTicket[int]()
	tk.cancel()
	tk.cancel()

	e, _ := tk.Wait()
	assert.Equal(t, errno.Negate(errno.EIO), e)
}

func TestTicketCancelDoesNotOverwriteGenuineCompletion(t *testing.T) {
	tk := newTicket[int]()
	tk.Set(0, 42)
	tk.cancel()

	e, v := tk.Wait()
	assert.Equal(t, 0, e)
	assert.Equal(t, 42, v)
}
