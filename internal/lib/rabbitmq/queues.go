package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации событий жизненного цикла пользователя.
const (
	RoutingUserCreated = "user.created"
	RoutingUserDeleted = "user.deleted"
)

// UserEventQueues возвращает очереди, объявляемые вместе с обменником,
// чтобы события не терялись до появления потребителей.
func UserEventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "gym.user.audit", RoutingKey: "user.*"},
	}
}
