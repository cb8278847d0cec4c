package pc

const (
	kbcStatusOutputFull uint8 = 0x01
	kbcStatusSystem     uint8 = 0x04

	kbcCmdReset uint8 = 0xFE

	// kbcQueueSize bounds the scancodes waiting in the controller.
	kbcQueueSize = 1024
)

// i8042 models the keyboard controller output queue.
type i8042 struct {
	queue   []uint8
	last    uint8
	dropped int
}

func (k *i8042) status() uint8 {
	status := kbcStatusSystem
	if len(k.queue) != 0 {
		status |= kbcStatusOutputFull
	}
	return status
}

// read pops the next scancode. Reading an empty controller returns the
// previous byte again.
func (k *i8042) read() uint8 {
	if len(k.queue) != 0 {
		k.last = k.queue[0]
		k.queue = k.queue[1:]
	}
	return k.last
}

// push queues codes and reports whether the output buffer went from empty
// to full.
func (k *i8042) push(codes []uint8) bool {
	wasEmpty := len(k.queue) == 0
	for _, code := range codes {
		if len(k.queue) >= kbcQueueSize {
			k.dropped++
			continue
		}
		k.queue = append(k.queue, code)
	}
	return wasEmpty && len(k.queue) != 0
}
